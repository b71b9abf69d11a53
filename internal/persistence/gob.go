package persistence

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
)

// SaveGob encodes the given object using gob and saves it to the specified filePath.
// It creates necessary directories if they don't exist. The file is written to a
// temporary sibling first and renamed into place, so readers never see a partial file.
func SaveGob(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer func() {
		// Rename already moved it on success
		_ = os.Remove(tmpPath)
	}()

	if err := gob.NewEncoder(tmp).Encode(object); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to gob encode to file %s", filePath)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close file %s", tmpPath)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return errors.Wrapf(err, "failed to move %s into place", filePath)
	}
	return nil
}

// LoadGob decodes a gob-encoded file from filePath into the provided object pointer.
// The object must be a pointer to the type that was originally encoded.
// If the file does not exist, it returns os.ErrNotExist, allowing callers to handle
// fresh starts gracefully.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return errors.Wrapf(err, "failed to open file %s", filePath)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Logger.Warnw("Failed to close file", "file", filePath, logger.FieldError, closeErr)
		}
	}()

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return errors.Wrapf(err, "failed to gob decode from file %s", filePath)
	}
	return nil
}
