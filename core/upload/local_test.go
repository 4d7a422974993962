package upload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDirPutFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lista.pdf")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	base := t.TempDir()
	l := NewLocalDir(base)
	uri, err := l.PutFile(context.Background(), "my-lake", src, "lake/staging/ds/lista.pdf")
	require.NoError(t, err)

	assert.Equal(t, "file://my-lake/lake/staging/ds/lista.pdf", uri)
	data, err := os.ReadFile(filepath.Join(base, "my-lake", "lake", "staging", "ds", "lista.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestLocalDirPutBytes(t *testing.T) {
	base := t.TempDir()
	l := NewLocalDir(base)
	uri, err := l.PutBytes(context.Background(), "my-lake", []byte(`{"job":"x"}`), "ds/metadata.json", "application/json")
	require.NoError(t, err)

	assert.Equal(t, "file://my-lake/ds/metadata.json", uri)
	data, err := os.ReadFile(filepath.Join(base, "my-lake", "ds", "metadata.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"job":"x"}`, string(data))
}

func TestLocalDirPutBytesCancelledContext(t *testing.T) {
	base := t.TempDir()
	l := NewLocalDir(base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.PutBytes(ctx, "b", []byte("x"), "ds/metadata.json", "application/json")
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalDirPutFileMissingSource(t *testing.T) {
	l := NewLocalDir(t.TempDir())
	_, err := l.PutFile(context.Background(), "b", "/does/not/exist", "k")
	assert.Error(t, err)
}
