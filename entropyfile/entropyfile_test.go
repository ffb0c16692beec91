package entropyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesOneFloatPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "random.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.1\n0.9\n0.42\n"), 0o644))

	stream, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.9, 0.42}, stream)
}

func TestLoadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "random.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.1\n\n0.9\n"), 0o644))

	stream, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.9}, stream)
}

func TestLoadMissingFileIsFatalError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestLoadMalformedLineIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "random.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.1\nnot-a-float\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
