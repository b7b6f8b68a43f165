package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutGet(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := []byte("id,title\n1,Shirt\n")
	meta := &Metadata{
		ContentType:  "text/csv",
		OriginalName: "products.csv",
		FeedID:       "feed_1",
		UploadedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Put(ctx, FeedKey("feed_1", "products.csv"), content, meta))

	got, err := s.Get(ctx, "feeds/feed_1.csv")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := s.GetInfo(ctx, "feeds/feed_1.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, ComputeChecksum(content), info.Checksum)
	assert.Equal(t, "text/csv", info.ContentType)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "feed_1", info.Metadata.FeedID)

	ok, err := s.Exists(ctx, "feeds/feed_1.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStorageNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetInfo(ctx, "missing.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	ok, err := s.Exists(ctx, "missing.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "missing.csv"))
}

func TestLocalStorageListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"history/b.json", "history/a.json", "feeds/a.csv"} {
		require.NoError(t, s.Put(ctx, key, []byte("{}"), &Metadata{}))
	}

	keys, err := s.List(ctx, "history/")
	require.NoError(t, err)
	assert.Equal(t, []string{"history/a.json", "history/b.json"}, keys)

	keys, err = s.List(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, s.Delete(ctx, "history/a.json"))
	keys, err = s.List(ctx, "history/")
	require.NoError(t, err)
	assert.Equal(t, []string{"history/b.json"}, keys)

	_, err = os.Stat(filepath.Join(s.BasePath(), "history", "a.json.meta"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageKeysStayInsideBase(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "etc", "passwd"), s.keyToPath("../../etc/passwd"))
}

func TestFeedKey(t *testing.T) {
	assert.Equal(t, "feeds/feed_1.csv", FeedKey("feed_1", "Products.CSV"))
	assert.Equal(t, "feeds/feed_1.xlsx", FeedKey("feed_1", "export.xlsx"))
	assert.Equal(t, "feeds/feed_1.csv", FeedKey("feed_1", "stdin"))
	assert.Equal(t, "history/feed_1.json", HistoryKey("feed_1"))
}
