// internal/workers/sales/plan-daily-sale/handler.go
package plandailysale

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/metrics"
	"seller-assistant/internal/common/observability"
	"seller-assistant/internal/sale"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "plan-daily-sale"
)

// Trigger creates sale plans on demand.
type Trigger interface {
	Trigger(trigger string) sale.Plan
	NextRun() time.Time
}

type Handler struct {
	config     *Config
	trigger    Trigger
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.JobErrorHandler
}

func NewHandler(config *Config, trigger Trigger, log logger.Logger, obs *observability.Observability) *Handler {
	if obs == nil {
		obs = observability.Noop()
	}
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:     config,
		trigger:    trigger,
		logger:     l,
		obs:        obs,
		errHandler: errors.NewJobErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if strings.TrimSpace(job.Variables) != "" {
		if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
			h.fail(ctx, client, job, errors.NewInvalidInputError("parse input: "+err.Error()), start)
			return
		}
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.fail(ctx, client, job, errors.NewSalePlanFailedError(err), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSalePlanFailedError(err)
	}

	plan := h.trigger.Trigger(sale.TriggerWorkflow)
	if plan.CouponCode == "" {
		return nil, errors.NewSalePlanFailedError(fmt.Errorf("planner returned an empty plan"))
	}

	output := &Output{RequestID: input.RequestID, Plan: plan}
	if next := h.trigger.NextRun(); !next.IsZero() {
		output.NextRun = next.Format(time.RFC3339)
	}

	h.logger.Info("sale plan produced", map[string]interface{}{
		"planId":     plan.ID,
		"couponCode": plan.CouponCode,
		"startDate":  plan.StartDate,
	})
	return output, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
