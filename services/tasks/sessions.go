package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeSessionSweep = "session:sweep"
	TypeAbandonNudge = "checkout:nudge"
)

// AbandonNudgePayload identifies a checkout session left mid-flow.
type AbandonNudgePayload struct {
	Handle     string `json:"handle"`
	ProviderID string `json:"providerId"`
}

// NewSessionSweepTask builds the periodic expired-session sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSessionSweep, nil)
}

// NewAbandonNudgeTask builds a delayed follow-up for an abandoned checkout.
func NewAbandonNudgeTask(payload AbandonNudgePayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAbandonNudge, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
