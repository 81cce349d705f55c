// Package job provides background job processing using Asynq.
//
// The importer enqueues a dataset:refreshed task after replacing a table;
// the API process consumes it and invalidates its lookup cache.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService runs the Asynq workers that consume dataset events. Tasks are
// published from the importer through a Publisher.
type JobService struct {
	server *asynq.Server
	logger *zerolog.Logger
	purger CachePurger
}

// NewJobService creates a JobService using the Redis at redisAddr.
func NewJobService(logger *zerolog.Logger, redisAddr string) *JobService {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   asynqLogger{logger: logger},
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		server: server,
		logger: logger,
	}
}

// Start registers task handlers and starts the workers in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDatasetRefreshed, j.handleDatasetRefreshedTask)

	j.logger.Info().Msg("Starting background job server")

	return j.server.Start(mux)
}

// Stop waits for running tasks and shuts the workers down.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
}
