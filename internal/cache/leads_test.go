package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/octobees/leads-manager/internal/entity"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "lead:42", Key(42))
}

func TestLeadEncodingKeepsOptionalFields(t *testing.T) {
	industry := "Technology"
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	lead := &entity.Lead{
		ID:        3,
		Name:      "Jane Doe",
		Company:   "Acme",
		Industry:  &industry,
		CreatedAt: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: &updated,
	}

	encoded, err := msgpack.Marshal(lead)
	require.NoError(t, err)

	var decoded entity.Lead
	require.NoError(t, msgpack.Unmarshal(encoded, &decoded))
	assert.Equal(t, lead.ID, decoded.ID)
	assert.Equal(t, "Technology", *decoded.Industry)
	assert.Nil(t, decoded.Email)
	assert.True(t, lead.CreatedAt.Equal(decoded.CreatedAt))
	require.NotNil(t, decoded.UpdatedAt)
	assert.True(t, updated.Equal(*decoded.UpdatedAt))
}

func TestRedisLeadCache_PropagatesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer client.Close()

	c := NewRedisLeadCache(client, 0)
	ctx := context.Background()

	_, err := c.FindByID(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, c.EvictByID(ctx, 1))
	assert.Error(t, c.Cache(ctx, &entity.Lead{ID: 1}))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
