package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// CachePurger drops every cached lookup.
type CachePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// InitHandlers sets the dependencies used by task handlers. A nil purger
// turns refresh tasks into log-only no-ops.
func (j *JobService) InitHandlers(purger CachePurger) {
	j.purger = purger
}

// handleDatasetRefreshedTask invalidates cached lookups after an import.
func (j *JobService) handleDatasetRefreshedTask(ctx context.Context, t *asynq.Task) error {
	var p DatasetRefreshedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal dataset refreshed payload: %w: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskDatasetRefreshed).
		Str("table", p.Table).
		Int64("row_count", p.RowCount).
		Logger()

	if j.purger == nil {
		log.Info().Msg("dataset refreshed, lookup cache disabled")
		return nil
	}

	removed, err := j.purger.Purge(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge lookup cache")
		return err
	}

	log.Info().Int64("removed", removed).Msg("purged lookup cache after dataset refresh")
	return nil
}
