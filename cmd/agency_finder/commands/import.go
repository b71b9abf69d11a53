package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/model"
)

// ImportCmd loads agency records from a JSON or YAML file into the local backend.
var ImportCmd = &cobra.Command{
	Use:   "import <file.json|file.yaml>",
	Short: "Import agency records into the local backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, eng, err := openBackend(Settings.Backend)
		if err != nil {
			return err
		}
		if eng == nil {
			return errors.WithHint(
				errors.Newf("import is not supported by the %q backend", Settings.Backend.Kind),
				"set backend.kind to \"local\"")
		}

		agencies, err := readAgencies(args[0])
		if err != nil {
			return err
		}
		err = eng.Import(cmd.Context(), agencies, func(done, total int) {
			logger.Logger.Debugw("Import progress", "done", done, "total", total)
		})
		if err != nil {
			return err
		}

		logger.Logger.Infow("Imported agencies", logger.FieldCount, len(agencies), "total", eng.Count())
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d agencies (%d stored)\n", len(agencies), eng.Count())
		return err
	},
}

// readAgencies decodes a list of records, choosing the format by file extension.
func readAgencies(path string) ([]model.Agency, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return decodeAgencies(filepath.Ext(path), bytes.NewReader(data))
}

func decodeAgencies(ext string, r io.Reader) ([]model.Agency, error) {
	var agencies []model.Agency
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&agencies); err != nil {
			return nil, errors.Wrap(err, "decoding JSON records")
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&agencies); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decoding YAML records")
		}
	default:
		return nil, errors.NewValidationError("file", "unsupported extension '"+ext+"', expected .json, .yaml or .yml")
	}
	return agencies, nil
}
