package job

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_PublishDatasetRefreshed(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zerolog.Nop()

	publisher := NewPublisher(&logger, mr.Addr())
	defer publisher.Close()

	err := publisher.PublishDatasetRefreshed(context.Background(), DatasetRefreshedPayload{
		Table:      "zip_county",
		SourceFile: "zip_county.csv",
		RowCount:   3,
	})
	require.NoError(t, err)

	pending, err := mr.List("asynq:{critical}:pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	msg := mr.HGet("asynq:{critical}:t:"+pending[0], "msg")
	assert.NotEmpty(t, msg)
}

func TestPublisher_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	logger := zerolog.Nop()
	publisher := NewPublisher(&logger, addr)
	defer publisher.Close()

	task, err := NewDatasetRefreshedTask(DatasetRefreshedPayload{Table: "zip_county"})
	require.NoError(t, err)

	_, err = publisher.Enqueue(context.Background(), task)
	assert.Error(t, err)
}
