package database

import (
	"context"
	"testing"
	"time"

	"innkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncQueueLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := &models.SyncTask{
		TaskType:  "append",
		BookingID: 7,
		Payload:   `{"booking_id":7}`,
		Status:    "pending",
	}
	require.NoError(t, db.CreateSyncTask(ctx, task))
	assert.NotZero(t, task.ID)

	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "append", pending[0].TaskType)
	assert.Equal(t, int64(7), pending[0].BookingID)

	require.NoError(t, db.MarkSyncTaskDone(ctx, task.ID))
	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncQueueRetryScheduling(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := &models.SyncTask{TaskType: "append", BookingID: 1, Payload: "{}", Status: "pending"}
	require.NoError(t, db.CreateSyncTask(ctx, task))

	// A retry scheduled in the future is invisible to the poller.
	require.NoError(t, db.MarkSyncTaskRetry(ctx, task.ID, 1, "boom", time.Now().Add(time.Hour)))
	pending, err := db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Once the retry time passes it shows up again.
	require.NoError(t, db.MarkSyncTaskRetry(ctx, task.ID, 2, "boom", time.Now().Add(-time.Minute)))
	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].RetryCount)
	assert.Equal(t, "boom", pending[0].LastError.String)

	require.NoError(t, db.MarkSyncTaskFailed(ctx, task.ID, "gave up"))
	pending, err = db.GetPendingSyncTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
