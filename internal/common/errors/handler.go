package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger is the subset of logger.Logger the job error handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// JobErrorHandler reports a failed job back to Zeebe, either as a failure with
// retries or as a BPMN error the process model can catch.
type JobErrorHandler struct {
	logger Logger
}

func NewJobErrorHandler(logger Logger) *JobErrorHandler {
	return &JobErrorHandler{logger: logger}
}

// Decision describes what HandleJobError will do with a job.
type Decision struct {
	ThrowBPMN bool
	Retries   int
	BPMN      *BPMNError
}

// Decide normalizes err and picks between failing with retries and throwing a BPMN error.
func Decide(job entities.Job, err error) Decision {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	retries := bpmnErr.Retries
	if retries == 0 || job.Retries <= 0 {
		return Decision{ThrowBPMN: true, BPMN: bpmnErr}
	}
	if int(job.Retries) < retries {
		retries = int(job.Retries)
	}
	return Decision{Retries: retries, BPMN: bpmnErr}
}

// HandleJobError fails or throws the job depending on the error's retry policy.
func (h *JobErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	d := Decide(job, err)

	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":          job.Key,
		"jobType":         job.Type,
		"bpmnErrorCode":   d.BPMN.Code,
		"message":         d.BPMN.Message,
		"details":         d.BPMN.Details,
		"retryable":       d.BPMN.Retryable,
		"retries":         d.Retries,
		"throwBpmn":       d.ThrowBPMN,
		"errorCategory":   GetErrorCategory(ErrorCode(d.BPMN.Code)),
		"processInstance": job.ProcessInstanceKey,
	})

	varsJSON, _ := json.Marshal(d.BPMN.ToErrorVariables())

	if d.ThrowBPMN {
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(d.BPMN.Code).
			ErrorMessage(d.BPMN.Message)
		if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
			_, _ = withVars.Send(ctx)
			return
		}
		_, _ = cmd.Send(ctx)
		return
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(d.Retries)).
		ErrorMessage(d.BPMN.Message)
	if withVars, verr := cmd.VariablesFromString(string(varsJSON)); verr == nil {
		_, _ = withVars.Send(ctx)
		return
	}
	_, _ = cmd.Send(ctx)
}
