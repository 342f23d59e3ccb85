package dedup_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/newscrawl/internal/dedup"
)

func TestMemoryStore_HasAndRecord(t *testing.T) {
	t.Parallel()

	store := dedup.NewMemoryStore()
	ctx := context.Background()

	known, err := store.Has(ctx, "https://n.news.naver.com/article/009/0001")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, store.Record(ctx, "https://n.news.naver.com/article/009/0001"))

	known, err = store.Has(ctx, "https://n.news.naver.com/article/009/0001")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Seed(t *testing.T) {
	t.Parallel()

	store := dedup.NewMemoryStore()
	store.Seed([]string{"a", "b", "a"})

	assert.Equal(t, 2, store.Len())

	known, err := store.Has(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, known)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := dedup.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, url := range []string{"a", "b", "c", "d"} {
		url := url
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Record(ctx, url)
			_, _ = store.Has(ctx, url)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, store.Len())
}

func TestSession_SeenAfterMark(t *testing.T) {
	t.Parallel()

	session := dedup.NewSession()

	assert.False(t, session.Seen("u"))
	session.Mark("u")
	assert.True(t, session.Seen("u"))
	assert.False(t, session.Seen("other"))
}
