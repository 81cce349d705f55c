package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Publisher enqueues tasks for the API workers without running any itself.
type Publisher struct {
	client *asynq.Client
	logger *zerolog.Logger
}

// NewPublisher creates a Publisher using the Redis at redisAddr. No
// connection is made until the first Enqueue.
func NewPublisher(logger *zerolog.Logger, redisAddr string) *Publisher {
	return &Publisher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: logger,
	}
}

// Enqueue publishes task and logs where it landed.
func (p *Publisher) Enqueue(ctx context.Context, task *asynq.Task) (*asynq.TaskInfo, error) {
	info, err := p.client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued task")

	return info, nil
}

// PublishDatasetRefreshed announces a committed import.
func (p *Publisher) PublishDatasetRefreshed(ctx context.Context, payload DatasetRefreshedPayload) error {
	task, err := NewDatasetRefreshedTask(payload)
	if err != nil {
		return err
	}

	_, err = p.Enqueue(ctx, task)
	return err
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
