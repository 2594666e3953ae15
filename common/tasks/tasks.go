// Package tasks defines the asynq task types exchanged between the API and
// the detect worker.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pixtag/pixtag/common/logger"
)

// TypeDetect asks the worker to run detection on an uploaded object
const TypeDetect = "pixtag:detect_image"

// DetectPayload identifies the object-store key to detect
type DetectPayload struct {
	ObjectKey string `json:"object_key"`
}

// NewDetectTask builds a detect task for one uploaded object
func NewDetectTask(objectKey string) (*asynq.Task, error) {
	payload, err := json.Marshal(DetectPayload{ObjectKey: objectKey})
	if err != nil {
		return nil, fmt.Errorf("marshal detect payload: %w", err)
	}
	return asynq.NewTask(TypeDetect, payload), nil
}

// Enqueuer submits tasks to the detect queue
type Enqueuer struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewEnqueuer creates a task enqueuer
func NewEnqueuer(client *asynq.Client, queue string, log *logger.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		queue:  queue,
		log:    log,
	}
}

// EnqueueDetect queues a detect task for an uploaded object
func (e *Enqueuer) EnqueueDetect(ctx context.Context, objectKey string) error {
	task, err := NewDetectTask(objectKey)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue detect task for %s: %w", objectKey, err)
	}

	e.log.Info("detect task queued", "task_id", info.ID, "object_key", objectKey)
	return nil
}
