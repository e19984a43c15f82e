package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisViewCounterIncrement(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	counter := NewRedisViewCounter(client)
	ctx := context.Background()

	n, err := counter.Increment(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = counter.Increment(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Separate applications count independently.
	n, err = counter.Increment(ctx, "app-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = counter.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisViewCounterGetMissingKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	counter := NewRedisViewCounter(client)
	n, err := counter.Get(context.Background(), "never-viewed")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRedisViewCounterPropagatesErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	counter := NewRedisViewCounter(client)

	mock.ExpectIncr("resume_views:app-1").SetErr(errors.New("connection refused"))

	_, err := counter.Increment(context.Background(), "app-1")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryViewCounter(t *testing.T) {
	counter := NewMemoryViewCounter()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		n, err := counter.Increment(ctx, "app-1")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := counter.Get(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
