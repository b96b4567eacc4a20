package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "verse-embed/internal/app/errors"
)

// Load reads a dataset previously written to dir
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	if err := readJSON(filepath.Join(dir, EmbeddingsJSON), &ds.Matrix); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, IndexJSON), &ds.Index); err != nil {
		return nil, err
	}

	err := readJSON(filepath.Join(dir, MetadataJSON), &ds.Summary)
	if err != nil && !errors.Is(err, apperrors.ErrFileNotFound) {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent dataset in %s: %w", dir, err)
	}
	return ds, nil
}

// Exists reports whether dir holds a matrix and an index
func Exists(dir string) bool {
	for _, name := range []string{EmbeddingsJSON, IndexJSON} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrapf(apperrors.ErrFileNotFound, "%s", path)
	}
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrFileReadFailed, "%s: %v", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
