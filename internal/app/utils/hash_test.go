package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashText(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashText(""))
	assert.Equal(t, HashText("agnim īḷe"), HashText("agnim īḷe"))
	assert.NotEqual(t, HashText("agnim"), HashText("agnim "))
}

func TestFileHashAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	hash, err := CalculateFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, HashText("{}"), hash)

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.EqualValues(t, 2, size)

	_, err = CalculateFileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	_, err = GetFileSize(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
