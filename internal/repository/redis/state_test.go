package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
	apperrors "github.com/Emmanation-Designs/Gibson-Collections/pkg/errors"
)

func setupTestRedis(t *testing.T) (*StateRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewStateRepository(client, 30*24*time.Hour)
	return repo, mr
}

func sampleSnapshot() domain.StateSnapshot {
	return domain.StateSnapshot{
		Cart: []domain.CartItem{
			{
				Product: domain.Product{
					ID:       "prod-1",
					Name:     "Baby Lotion",
					Price:    4500,
					Category: domain.CategoryBabyCare,
					Images:   []string{"https://img.example.com/lotion.jpg"},
				},
				Quantity: 2,
			},
		},
		Wishlist: []string{"prod-2", "prod-3"},
	}
}

func TestStateRepository_Load_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	snap := sampleSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, mr.Set("storefront:v1:state:shopper-1", string(data)))

	got, err := repo.Load(context.Background(), "shopper-1")
	require.NoError(t, err)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, "prod-1", got.Cart[0].ID)
	assert.Equal(t, int64(4500), got.Cart[0].Price)
	assert.Equal(t, 2, got.Cart[0].Quantity)
	assert.Equal(t, []string{"prod-2", "prod-3"}, got.Wishlist)
}

func TestStateRepository_Load_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Load(context.Background(), "nonexistent-shopper")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStateRepository_Load_InvalidJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("storefront:v1:state:shopper-bad", "{{not-valid-json"))

	_, err := repo.Load(context.Background(), "shopper-bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal snapshot")
}

func TestStateRepository_Save_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(context.Background(), "shopper-1", snap))

	assert.True(t, mr.Exists("storefront:v1:state:shopper-1"))

	raw, err := mr.Get("storefront:v1:state:shopper-1")
	require.NoError(t, err)

	var stored map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))

	// Only cart and wishlist are serialized; no session, no search text.
	assert.Contains(t, stored, "cart")
	assert.Contains(t, stored, "wishlist")
	assert.Len(t, stored, 2)
}

func TestStateRepository_Save_TTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), "shopper-1", sampleSnapshot()))

	ttl := mr.TTL("storefront:v1:state:shopper-1")
	assert.True(t, ttl > 29*24*time.Hour, "expected TTL > 29d, got %v", ttl)
	assert.True(t, ttl <= 30*24*time.Hour, "expected TTL <= 30d, got %v", ttl)
}

func TestStateRepository_SaveLoad_RoundTrip(t *testing.T) {
	repo, _ := setupTestRedis(t)

	snap := sampleSnapshot()
	require.NoError(t, repo.Save(context.Background(), "shopper-1", snap))

	got, err := repo.Load(context.Background(), "shopper-1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestStateRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)

	require.NoError(t, repo.Save(context.Background(), "shopper-1", sampleSnapshot()))
	require.True(t, mr.Exists("storefront:v1:state:shopper-1"))

	require.NoError(t, repo.Delete(context.Background(), "shopper-1"))
	assert.False(t, mr.Exists("storefront:v1:state:shopper-1"))
}

func TestStateRepository_Delete_NonExistent(t *testing.T) {
	repo, _ := setupTestRedis(t)

	assert.NoError(t, repo.Delete(context.Background(), "nonexistent-shopper"))
}
