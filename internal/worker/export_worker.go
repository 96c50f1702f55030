package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/domain"
	"innkeep/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const TaskAppend = "append"

// bookingTaskPayload is persisted in SyncTask.Payload as JSON.
type bookingTaskPayload struct {
	Booking *models.Booking `json:"booking"`
	RoomIDs []int64         `json:"room_ids"`
	Total   int64           `json:"total"`
}

// ExportWorker drains the export_queue and appends committed bookings to the
// configured spreadsheet. The SQLite queue is the source of truth; redis only
// carries the dead letters so that poisoned tasks stay visible.
type ExportWorker struct {
	db            *database.DB
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        zerolog.Logger
}

// NewExportWorker builds a worker with sane defaults.
func NewExportWorker(db *database.DB, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	var workerLogger zerolog.Logger
	if logger != nil {
		workerLogger = logger.With().Str("component", "export-worker").Logger()
	}

	return &ExportWorker{
		db:            db,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		deadLetterKey: "exports:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        workerLogger,
	}
}

// EnqueueBooking persists an export task for a committed booking.
func (w *ExportWorker) EnqueueBooking(ctx context.Context, booking *models.Booking, roomIDs []int64, total int64) error {
	if booking == nil || booking.ID == 0 {
		return fmt.Errorf("booking id is required")
	}

	payload := bookingTaskPayload{Booking: booking, RoomIDs: roomIDs, Total: total}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := &models.SyncTask{
		TaskType:  TaskAppend,
		BookingID: booking.ID,
		Payload:   string(payloadBytes),
		Status:    "pending",
	}
	if err := w.db.CreateSyncTask(ctx, task); err != nil {
		return fmt.Errorf("enqueue export task: %w", err)
	}
	return nil
}

// Start polls the queue until the context is canceled.
func (w *ExportWorker) Start(ctx context.Context) {
	if w.sheets == nil {
		w.logger.Info().Msg("no sheets writer configured, export worker idle")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("export worker stopped")
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				w.logger.Error().Err(err).Msg("process pending export tasks")
			}
		}
	}
}

// ProcessPending handles one batch of due tasks.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := w.processTask(ctx, task); err != nil {
			w.handleFailure(ctx, task, err)
			continue
		}
		if err := w.db.MarkSyncTaskDone(ctx, task.ID); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark task done")
		}
	}
	return nil
}

func (w *ExportWorker) processTask(ctx context.Context, task models.SyncTask) error {
	if task.TaskType != TaskAppend {
		return fmt.Errorf("unknown task type %q", task.TaskType)
	}

	var payload bookingTaskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if payload.Booking == nil {
		return fmt.Errorf("booking payload missing")
	}

	return w.sheets.AppendBooking(ctx, payload.Booking, joinRoomIDs(payload.RoomIDs), payload.Total)
}

func (w *ExportWorker) handleFailure(ctx context.Context, task models.SyncTask, taskErr error) {
	retryCount := task.RetryCount + 1
	if retryCount > w.retryPolicy.MaxRetries {
		w.logger.Error().Err(taskErr).Int64("task_id", task.ID).Msg("export task failed permanently")
		if err := w.db.MarkSyncTaskFailed(ctx, task.ID, taskErr.Error()); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark task failed")
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextRetry := time.Now().Add(w.retryPolicy.NextDelay(retryCount))
	w.logger.Warn().Err(taskErr).Int64("task_id", task.ID).Int("retry", retryCount).Time("next_retry", nextRetry).Msg("export task retry scheduled")
	if err := w.db.MarkSyncTaskRetry(ctx, task.ID, retryCount, taskErr.Error(), nextRetry); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark task retry")
	}
}

func (w *ExportWorker) pushDeadLetter(ctx context.Context, task models.SyncTask) {
	if w.redis == nil {
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, task.Payload).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("push dead letter")
	}
}

func joinRoomIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}
