package database

import (
	"context"
	"testing"
	"time"

	"seller-assistant/internal/common/config"
	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/retry"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts *int) retry.Policy {
	p := retry.DefaultPolicy()
	p.Sleep = func(context.Context, time.Duration) error {
		*attempts++
		return nil
	}
	return p
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	sleeps := 0

	rdb, err := ConnectRedis(context.Background(), config.RedisConfig{Address: mr.Addr()}, fastPolicy(&sleeps), logger.NewTestLogger(t))

	require.NoError(t, err)
	defer rdb.Close()
	assert.Equal(t, 0, sleeps)
	assert.NoError(t, Ping(context.Background(), rdb))
}

func TestConnectRedis_RetriesThenFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	sleeps := 0

	_, err := ConnectRedis(context.Background(), config.RedisConfig{Address: addr}, fastPolicy(&sleeps), logger.NewTestLogger(t))

	require.Error(t, err)
	assert.Equal(t, 2, sleeps)
	assert.Equal(t, errors.ErrCodeTransportFailed, errors.CodeOf(err))
}
