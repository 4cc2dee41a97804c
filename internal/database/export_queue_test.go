package database

import (
	"context"
	"testing"
	"time"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExportTask(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := models.ExportTask{Day: "2030-01-04", Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, &task))
	assert.NotZero(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestGetPendingExportTasks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	pending := models.ExportTask{Day: "2030-01-04", Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, &pending))

	done := models.ExportTask{Day: "2030-01-05", Status: "completed"}
	require.NoError(t, db.CreateExportTask(ctx, &done))

	future := time.Now().Add(time.Hour)
	deferred := models.ExportTask{Day: "2030-01-06", Status: "retry", NextRetryAt: &future}
	require.NoError(t, db.CreateExportTask(ctx, &deferred))

	past := time.Now().Add(-time.Minute)
	due := models.ExportTask{Day: "2030-01-07", Status: "retry", NextRetryAt: &past}
	require.NoError(t, db.CreateExportTask(ctx, &due))

	tasks, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	days := []string{tasks[0].Day, tasks[1].Day}
	assert.Contains(t, days, "2030-01-04")
	assert.Contains(t, days, "2030-01-07")
}

func TestGetPendingExportTasks_Limit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		task := models.ExportTask{Day: "2030-01-04", Status: "pending"}
		require.NoError(t, db.CreateExportTask(ctx, &task))
	}

	tasks, err := db.GetPendingExportTasks(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestUpdateExportTaskStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := models.ExportTask{Day: "2030-01-04", Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, &task))

	next := time.Now().Add(time.Hour)
	require.NoError(t, db.UpdateExportTaskStatus(ctx, task.ID, "retry", "boom", &next))

	// A deferred retry is not yet due.
	tasks, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, db.UpdateExportTaskStatus(ctx, task.ID, "completed", "", nil))
	tasks, err = db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateExportTaskStatus_RetryIncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	task := models.ExportTask{Day: "2030-01-04", Status: "pending"}
	require.NoError(t, db.CreateExportTask(ctx, &task))

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.UpdateExportTaskStatus(ctx, task.ID, "retry", "boom", &past))
	require.NoError(t, db.UpdateExportTaskStatus(ctx, task.ID, "retry", "boom again", &past))

	tasks, err := db.GetPendingExportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].RetryCount)
	require.NotNil(t, tasks[0].LastError)
	assert.Equal(t, "boom again", *tasks[0].LastError)
}
