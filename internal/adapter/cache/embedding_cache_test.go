package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Key("abc"))
	assert.Equal(t, Key("same text"), Key("same text"))
	assert.NotEqual(t, Key("a"), Key("a "))
}

func TestFileCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", ".embeddings")
	c := NewFileCache(dir, nil)

	vec, ok, err := c.Get(ctx, "A company shall have a name.")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, vec)

	want := []float32{0.1, -0.25, 3.5e-7, 1}
	require.NoError(t, c.Put(ctx, "A company shall have a name.", want))

	got, ok, err := c.Get(ctx, "A company shall have a name.")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, err = os.Stat(filepath.Join(dir, Key("A company shall have a name.")+".json"))
	assert.NoError(t, err, "entry should be named by content hash")
}

func TestFileCache_SurvivesNewInstance(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, NewFileCache(dir, nil).Put(ctx, "text", []float32{1, 2}))

	got, ok, err := NewFileCache(dir, nil).Get(ctx, "text")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 2}, got)
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewFileCache(dir, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, Key("broken")+".json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key("empty")+".json"), []byte("[]"), 0644))

	for _, text := range []string{"broken", "empty"} {
		vec, ok, err := c.Get(ctx, text)
		require.NoError(t, err)
		assert.False(t, ok, text)
		assert.Nil(t, vec, text)
	}
}

func TestFileCache_ConcurrentPutSameKey(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(t.TempDir(), nil)
	vec := []float32{0.5, 0.25}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Put(ctx, "shared", vec))
		}()
	}
	wg.Wait()

	got, ok, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, vec, got)

	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileCache_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewFileCache(t.TempDir(), nil)
	_, _, err := c.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Put(ctx, "x", []float32{1}), context.Canceled)
}
