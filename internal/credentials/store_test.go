package credentials

import (
	"context"
	"testing"

	"seller-assistant/internal/common/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "test:credentials:api_key"), mr
}

func TestRedisStore_SaveLoadClear(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "  sk-abcdef123456  "))

	stored, err := mr.Get("test:credentials:api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef123456", stored)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdef123456", got)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_RejectsBlankKey(t *testing.T) {
	store, mr := setupRedisStore(t)

	err := store.Save(context.Background(), "   ")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.False(t, mr.Exists("test:credentials:api_key"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")

	status, err := GetStatus(ctx, store)
	require.NoError(t, err)
	assert.False(t, status.Configured)

	require.NoError(t, store.Save(ctx, "sk-proj-1234567890"))
	status, err = GetStatus(ctx, store)
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.Equal(t, "sk-***********7890", status.Masked)
	assert.NotContains(t, status.Masked, "proj")
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   string
		explicit string
		want     string
		wantErr  error
	}{
		{name: "explicit wins", stored: "sk-stored", explicit: "sk-explicit", want: "sk-explicit"},
		{name: "stored used when explicit blank", stored: "sk-stored", explicit: "  ", want: "sk-stored"},
		{name: "missing everywhere", stored: "", explicit: "", wantErr: errors.ErrCredentialInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ctx, NewMemoryStore(tt.stored), tt.explicit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "abc**6789", Mask("abc-56789"))
}
