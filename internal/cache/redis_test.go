package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, ttl), srv
}

func TestRecordRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	miss, err := c.GetRecord(ctx, domain.KindMovie, "pt-BR", "Matrix")
	require.NoError(t, err)
	assert.Nil(t, miss)

	rec := &domain.CatalogRecord{ID: 603, Title: "Matrix", OriginalTitle: "The Matrix", Genres: []string{"Ação"}}
	require.NoError(t, c.SetRecord(ctx, domain.KindMovie, "pt-BR", "Matrix", rec))

	// keys are case and whitespace insensitive on the title
	got, err := c.GetRecord(ctx, domain.KindMovie, "pt-BR", "  matrix ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *rec, *got)

	other, err := c.GetRecord(ctx, domain.KindSeries, "pt-BR", "Matrix")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRecordExpires(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetRecord(ctx, domain.KindMovie, "pt-BR", "Matrix", &domain.CatalogRecord{ID: 603}))
	srv.FastForward(2 * time.Minute)

	got, err := c.GetRecord(ctx, domain.KindMovie, "pt-BR", "Matrix")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProvidersEmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t, 0)
	ctx := context.Background()

	_, found, err := c.GetProviders(ctx, domain.KindSeries, 1399, "BR")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetProviders(ctx, domain.KindSeries, 1399, "BR", []domain.Provider{}))

	providers, found, err := c.GetProviders(ctx, domain.KindSeries, 1399, "BR")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, providers)
}

func TestCorruptValue(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	require.NoError(t, srv.Set(searchKey(domain.KindMovie, "pt-BR", "matrix"), "{not json"))

	_, err := c.GetRecord(context.Background(), domain.KindMovie, "pt-BR", "Matrix")
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetRecord(ctx, domain.KindMovie, "pt-BR", "Matrix", &domain.CatalogRecord{ID: 603}))
	require.NoError(t, c.SetProviders(ctx, domain.KindMovie, 603, "BR", nil))
	require.NoError(t, srv.Set("unrelated", "keep"))

	require.NoError(t, c.Clear(ctx))

	assert.False(t, srv.Exists(searchKey(domain.KindMovie, "pt-BR", "Matrix")))
	assert.True(t, srv.Exists("unrelated"))
	assert.NoError(t, c.Ping(ctx))
}
