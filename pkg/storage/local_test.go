package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskLifecycle(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocalDisk(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "proofs/a.png", strings.NewReader("png"), "image/png"))

	ok, err := d.Exists(ctx, "proofs/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Get(ctx, "proofs/a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png", string(data))

	assert.Equal(t, "http://localhost:8080/storage/proofs/a.png", d.URL("proofs/a.png"))

	require.NoError(t, d.Delete(ctx, "proofs/a.png"))
	require.NoError(t, d.Delete(ctx, "proofs/a.png"), "deleting a missing file is not an error")

	_, err = d.Get(ctx, "proofs/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocalDisk(t.TempDir(), "")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))
	ok, err := d.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "parent segments are cleaned into the root")
	assert.Equal(t, "/storage/escape.txt", d.URL("escape.txt"))
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}
