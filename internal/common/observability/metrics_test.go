package observability

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestObservability_SpansAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	o := New("observability-test", sdktrace.WithSpanProcessor(recorder))
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "reply.generate", map[string]string{"stage": "exact"})
	o.RecordStage(ctx, "exact", 5*time.Millisecond)
	o.RecordJobProcessed(ctx, "generate-reply", "completed")
	o.RecordJobDuration(ctx, "generate-reply", 20*time.Millisecond, "completed")
	EndSpan(span, nil)

	_, failed := o.StartSpan(context.Background(), "reply.fallback", nil)
	EndSpan(failed, stderrors.New("remote unavailable"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "reply.generate", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "remote unavailable", ended[1].Status().Description)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "jobs_processed")
	assert.Contains(t, joined, "reply_stage_duration")
}

func TestNoop_RecordsNothing(t *testing.T) {
	o := Noop()
	ctx, span := o.StartSpan(context.Background(), "noop", nil)
	o.RecordStage(ctx, "exact", time.Millisecond)
	o.RecordJobProcessed(ctx, "generate-reply", "failed")
	EndSpan(span, nil)
	o.Shutdown()
}
