package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/domain/daily"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ daily.MarkerStore = (*Markers)(nil)

func TestBlobStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "blobs")

	d, err := Open(dir)
	require.NoError(t, err)
	s := NewBlobStore(d, nil)

	_, err = s.Get(ctx, blob.DefaultKey)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	require.NoError(t, s.Put(ctx, blob.DefaultKey, blob.EmptyDocument()))
	got, err := s.Get(ctx, blob.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, blob.EmptyDocument(), got)

	onDisk, err := os.ReadFile(filepath.Join(dir, blob.DefaultKey))
	require.NoError(t, err)
	assert.Equal(t, blob.EmptyDocument(), onDisk)

	// A second handle sees the same data.
	d2, err := Open(dir)
	require.NoError(t, err)
	got, err = NewBlobStore(d2, nil).Get(ctx, blob.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, blob.EmptyDocument(), got)

	assert.ErrorIs(t, s.Put(ctx, "../escape", []byte("x")), blob.ErrInvalidKey)
	assert.NoError(t, s.Ping(ctx))
}

func TestMarkers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := Open(t.TempDir())
	require.NoError(t, err)
	m := NewMarkers(d)

	date, err := m.LastClearDate(ctx)
	require.NoError(t, err)
	assert.Empty(t, date)

	require.NoError(t, m.SetLastClearDate(ctx, "2024-06-12"))
	date, err = m.LastClearDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", date)
}
