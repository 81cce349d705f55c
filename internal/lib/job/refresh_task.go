package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskDatasetRefreshed is enqueued by the importer after a table has been
	// replaced.
	TaskDatasetRefreshed = "dataset:refreshed"
)

// DatasetRefreshedPayload describes the import that triggered the task.
type DatasetRefreshedPayload struct {
	Table      string    `json:"table"`
	SourceFile string    `json:"source_file"`
	RowCount   int64     `json:"row_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// NewDatasetRefreshedTask builds the task announcing a finished import.
//
// It goes to the critical queue: stale cache entries keep serving the old
// dataset until the task runs.
func NewDatasetRefreshedTask(p DatasetRefreshedPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDatasetRefreshed,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("critical"),
		asynq.Timeout(30*time.Second),
	), nil
}
