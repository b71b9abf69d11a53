package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/agency-finder/config"
	"github.com/gcbaptista/agency-finder/internal/errors"
)

func TestDecodeAgencies(t *testing.T) {
	yamlDoc := `
- id: a1
  name: Stanford Legal Group
  suburb: Richmond
  attributes:
    rating: 4.5
- id: a2
  name: Toorak Realty
`
	agencies, err := decodeAgencies(".yaml", strings.NewReader(yamlDoc))
	require.NoError(t, err)
	require.Len(t, agencies, 2)
	assert.Equal(t, "Stanford Legal Group", agencies[0].Name)
	require.NotNil(t, agencies[0].Suburb)
	assert.Equal(t, "Richmond", *agencies[0].Suburb)
	assert.Equal(t, 4.5, agencies[0].Attributes["rating"])
	assert.Nil(t, agencies[1].Suburb)

	jsonDoc := `[{"id":"a3","name":"Stanford Lawyers","postcode":"3000"}]`
	agencies, err = decodeAgencies(".JSON", strings.NewReader(jsonDoc))
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	assert.Equal(t, "3000", *agencies[0].Postcode)

	agencies, err = decodeAgencies(".yml", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, agencies)

	_, err = decodeAgencies(".csv", strings.NewReader("id,name"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = decodeAgencies(".json", strings.NewReader("{"))
	assert.Error(t, err)
}

func newRoot(sub *cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:           "agency_finder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "")
	root.PersistentFlags().Bool("log-json", false, "")
	root.PersistentFlags().String("log-level", "", "")
	root.AddCommand(sub)
	return root
}

func writeConfig(t *testing.T, dataDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend:\n  kind: local\n  data_dir: " + dataDir + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportThenSearch(t *testing.T) {
	dataDir := t.TempDir()
	cfg := writeConfig(t, dataDir)

	records := filepath.Join(t.TempDir(), "agencies.json")
	require.NoError(t, os.WriteFile(records, []byte(`[
		{"id":"a1","name":"Stanford Legal Group","suburb":"Richmond"},
		{"id":"a2","name":"Toorak Realty"}
	]`), 0600))

	var out bytes.Buffer
	root := newRoot(ImportCmd)
	root.SetOut(&out)
	root.SetArgs([]string{"import", records, "--config", cfg})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Imported 2 agencies")
	assert.Equal(t, config.BackendLocal, Settings.Backend.Kind)

	out.Reset()
	root = newRoot(SearchCmd)
	root.SetOut(&out)
	root.SetArgs([]string{"search", "Stanford", "Legal", "--config", cfg, "--log-json"})
	require.NoError(t, root.Execute())
	assert.True(t, Settings.Log.JSON)
	assert.Contains(t, out.String(), `"name": "Stanford Legal Group"`)
	assert.Contains(t, out.String(), `"no_match": false`)
}

func TestOpenBackendUnknownKind(t *testing.T) {
	_, _, err := openBackend(config.BackendSettings{Kind: "ftp"})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestOpenBackendCRM(t *testing.T) {
	backend, eng, err := openBackend(config.BackendSettings{Kind: config.BackendCRM, BaseURL: "http://crm.invalid"})
	require.NoError(t, err)
	assert.Nil(t, eng)
	assert.Equal(t, "crm", backend.Name())
}
