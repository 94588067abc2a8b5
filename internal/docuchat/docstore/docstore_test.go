package docstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docuchat/internal/docuchat/docstore"
)

func TestSaveNormalizesName(t *testing.T) {
	s, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	name, path, err := s.Save("../../etc/notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", name)
	assert.Equal(t, s.Path("notes.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	_, _, err = s.Save(".", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestListSkipsHiddenAndDirs(t *testing.T) {
	dir := t.TempDir()
	s, err := docstore.New(dir)
	require.NoError(t, err)

	_, _, err = s.Save("b.txt", strings.NewReader("b"))
	require.NoError(t, err)
	_, _, err = s.Save("a.md", strings.NewReader("a"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.txt"}, names)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	s, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Remove("does-not-exist.txt"))
}

func TestRemoveDeletesFile(t *testing.T) {
	s, err := docstore.New(t.TempDir())
	require.NoError(t, err)

	_, path, err := s.Save("doc.txt", strings.NewReader("content"))
	require.NoError(t, err)

	require.NoError(t, s.Remove("doc.txt"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
