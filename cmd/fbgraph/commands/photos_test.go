//nolint:testpackage // Need access to internal types
package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhotoCommand(t *testing.T) {
	cmd := NewPhotoCommand()
	assert.Equal(t, "photo", cmd.Use)
	assert.Equal(t, []string{"photos"}, cmd.Aliases)
	assert.Equal(t, "Manage photos", cmd.Short)
	assert.Equal(t, "Upload photos to albums and walls", cmd.Long)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 1)
	assert.Equal(t, "upload", subcommands[0].Name())
}

func TestPhotoUploadCommand(t *testing.T) {
	cmd := newPhotoUploadCommand()
	assert.Equal(t, "upload FILE", cmd.Use)
	assert.Equal(t, "Upload a photo", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	// Check flags
	assert.NotNil(t, cmd.Flags().Lookup("album"))
	assert.NotNil(t, cmd.Flags().Lookup("message"))
	assert.NotNil(t, cmd.Flags().Lookup("no-story"))
}

func TestReadImageFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.png")

	// Minimal PNG header
	content := []byte("\x89PNG\r\n\x1a\n")
	require.NoError(t, os.WriteFile(file, content, 0o600))

	data, contentType, err := readImageFile(file)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "image/png", contentType)
}

func TestReadImageFileEmptyPath(t *testing.T) {
	_, _, err := readImageFile("")
	assert.ErrorIs(t, err, constants.ErrFileRequired)
}

func TestReadImageFileTraversal(t *testing.T) {
	_, _, err := readImageFile("../etc/passwd")
	assert.ErrorIs(t, err, constants.ErrDirectoryTraversalDetected)
}

func TestReadImageFileMissing(t *testing.T) {
	_, _, err := readImageFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorContains(t, err, "failed to stat file")
}

func TestReadImageFileDirectory(t *testing.T) {
	_, _, err := readImageFile(t.TempDir())
	assert.ErrorIs(t, err, constants.ErrNotRegularFile)
}
