package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotoDirectoryForTest(t *testing.T) *PhotoDirectory {
	t.Helper()
	dir, err := NewPhotoDirectory(filepath.Join(t.TempDir(), "uploads"), []string{".PNG", "jpg", " jpeg ", "gif"})
	require.NoError(t, err)
	return dir
}

func TestNewPhotoDirectoryRequiresRootAndExtensions(t *testing.T) {
	_, err := NewPhotoDirectory("  ", []string{"png"})
	assert.Error(t, err)

	_, err = NewPhotoDirectory(t.TempDir(), []string{" ", "."})
	assert.Error(t, err)
}

func TestPhotoDirectoryAllowed(t *testing.T) {
	dir := newPhotoDirectoryForTest(t)

	assert.True(t, dir.Allowed("face.png"))
	assert.True(t, dir.Allowed("FACE.JPEG"))
	assert.False(t, dir.Allowed("face.exe"))
	assert.False(t, dir.Allowed("png"))
	assert.False(t, dir.Allowed(""))
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":            "photo.jpg",
		"My Photo  2024.png":   "My_Photo_2024.png",
		"../../etc/passwd.png": "etc_passwd.png",
		`C:\Users\me\face.gif`: "C_Users_me_face.gif",
		"Zoë Ångström.jpeg":    "Zoe_Angstrom.jpeg",
		"фото.png":             "png",
		"<script>.jpg":         "script.jpg",
		"...hidden.png":        "hidden.png",
	}

	for input, want := range tests {
		assert.Equal(t, want, SanitizeFilename(input), "SanitizeFilename(%q)", input)
	}
}

func TestPhotoDirectorySaveOpenRemove(t *testing.T) {
	dir := newPhotoDirectoryForTest(t)

	stored, replaced, err := dir.Save("../Zoë face.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Zoe_face.jpg", stored)
	assert.False(t, replaced)

	path, err := dir.Open(stored)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir.Root(), stored), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))

	entries, err := os.ReadDir(dir.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary upload files must not be left behind")

	require.NoError(t, dir.Remove(stored))
	_, err = dir.Open(stored)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
	assert.NoError(t, dir.Remove(stored), "removing a missing photo is not an error")
}

func TestPhotoDirectorySaveReplacesSameName(t *testing.T) {
	dir := newPhotoDirectoryForTest(t)

	_, replaced, err := dir.Save("face.png", strings.NewReader("first"))
	require.NoError(t, err)
	assert.False(t, replaced)
	stored, replaced, err := dir.Save("face.png", strings.NewReader("second"))
	require.NoError(t, err)
	assert.True(t, replaced)

	content, err := os.ReadFile(filepath.Join(dir.Root(), stored))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestPhotoDirectoryRejectsUnsafeNames(t *testing.T) {
	dir := newPhotoDirectoryForTest(t)

	_, _, err := dir.Save("virus.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)

	_, _, err = dir.Save("фото", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidFilename)

	for _, name := range []string{"", "../secret.png", "sub/face.png", ".hidden.png"} {
		_, err := dir.Path(name)
		assert.ErrorIs(t, err, ErrInvalidFilename, "Path(%q)", name)
	}
}

func TestPhotoDirectorySaveGeneratesNameWhenNothingSurvivesSanitising(t *testing.T) {
	dir := newPhotoDirectoryForTest(t)

	first, replaced, err := dir.Save("фото.JPG", strings.NewReader("first"))
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Regexp(t, `^[A-Za-z0-9]{16}\.jpg$`, first)

	second, _, err := dir.Save("фото.jpg", strings.NewReader("second"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "generated names must not overwrite each other")

	path, err := dir.Open(first)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))

	hidden, _, err := dir.Save(".png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(hidden, ".png"))
	assert.Len(t, hidden, 20)
}
