package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "invoices/a/b.pdf", []byte("%PDF-data"), "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, url, "file://")

	data, err := store.Get(ctx, "invoices/a/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-data"), data)

	require.NoError(t, store.Delete(ctx, "invoices/a/b.pdf"))
	_, err = store.Get(ctx, "invoices/a/b.pdf")
	assert.Error(t, err)

	// Deleting a missing object is not an error.
	assert.NoError(t, store.Delete(ctx, "invoices/a/b.pdf"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "../escape.pdf", []byte("x"), "application/pdf")
	assert.Error(t, err)
	_, err = store.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestLocalStoragePresign(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	url, err := store.Presign(context.Background(), "invoices/a/b.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "expires=")
}
