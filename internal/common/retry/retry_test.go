package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures requested delays without waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testPolicy(rs *recordingSleep) Policy {
	p := DefaultPolicy()
	p.Sleep = rs.sleep
	return p
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0

	got, err := Do(context.Background(), testPolicy(rs), logger.NewTestLogger(t), "op", func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rs.delays)
}

func TestDo_RetriesRateLimitWithDoublingDelay(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0

	got, err := Do(context.Background(), testPolicy(rs), logger.NewTestLogger(t), "classify", func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.NewRateLimitError("classify", stderrors.New("429"))
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rs.delays)
}

func TestDo_ExhaustionIsTransportFailure(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0
	cause := errors.NewTransportError("generate", stderrors.New("connection refused"))

	_, err := Do(context.Background(), testPolicy(rs), logger.NewTestLogger(t), "generate", func(ctx context.Context) (string, error) {
		calls++
		return "", cause
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errors.ErrTransportFailed)
	assert.False(t, errors.IsRetryable(err))
	assert.Len(t, rs.delays, 2)
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	rs := &recordingSleep{}
	calls := 0

	_, err := Do(context.Background(), testPolicy(rs), logger.NewTestLogger(t), "generate", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.NewCredentialError("401")
	})

	assert.ErrorIs(t, err, errors.ErrCredentialInvalid)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rs.delays)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := DefaultPolicy()
	p.InitialDelay = time.Hour

	_, err := Do(ctx, p, logger.NewNoOpLogger(), "op", func(ctx context.Context) (string, error) {
		return "", errors.NewTransportError("op", stderrors.New("boom"))
	})

	assert.ErrorIs(t, err, errors.ErrTransportFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_DelayCapped(t *testing.T) {
	p := Policy{InitialDelay: time.Second, MaxDelay: 3 * time.Second}
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 3*time.Second, p.Delay(3))
}
