// internal/workers/messaging/generate-reply/handler.go
package generatereply

import (
	"context"
	"encoding/json"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/common/metrics"
	"seller-assistant/internal/common/observability"
	"seller-assistant/internal/common/validation"
	"seller-assistant/internal/credentials"
	"seller-assistant/internal/reply"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-reply"
)

// Replier produces reply candidates for a customer message.
type Replier interface {
	GenerateResponse(ctx context.Context, message, apiKey string) (reply.ResultSet, error)
}

type Handler struct {
	config     *Config
	replier    Replier
	store      credentials.Store
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.JobErrorHandler
}

func NewHandler(config *Config, replier Replier, store credentials.Store, log logger.Logger, obs *observability.Observability) *Handler {
	if obs == nil {
		obs = observability.Noop()
	}
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:     config,
		replier:    replier,
		store:      store,
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

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := validation.ValidateJSON(validation.GenerateReplyInput, variables)
	if err != nil {
		return nil, errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewInvalidInputError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	apiKey, err := credentials.Resolve(ctx, h.store, input.APIKey)
	if err != nil {
		return nil, err
	}

	rs, err := h.replier.GenerateResponse(ctx, input.Message, apiKey)
	if err != nil {
		return nil, err
	}

	output := &Output{
		RequestID:  input.RequestID,
		Replies:    rs.Texts(),
		Candidates: make([]Candidate, 0, len(rs)),
	}
	for _, c := range rs {
		output.Candidates = append(output.Candidates, Candidate{
			Text:         c.Text,
			IsExactMatch: c.IsExactMatch,
			Source:       string(c.Source),
		})
	}
	if len(rs) > 0 {
		output.PrimarySource = string(rs[0].Source)
	}

	h.logger.Info("reply candidates generated", map[string]interface{}{
		"requestId":     input.RequestID,
		"primarySource": output.PrimarySource,
		"count":         len(output.Candidates),
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		h.fail(ctx, client, job, err, start)
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
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errHandler.HandleJobError(ctx, client, job, err)
}

// Execute runs the job logic without a Zeebe client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// ParseInput validates and decodes raw job variables.
func (h *Handler) ParseInput(variables string) (*Input, error) {
	return h.parseInput(variables)
}
