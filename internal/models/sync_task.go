package models

import (
	"database/sql"
	"time"
)

// SyncTask is a durable unit of export work (sheets append etc.) persisted
// in the export_queue table so a restart does not lose pending exports.
type SyncTask struct {
	ID          int64
	TaskType    string
	BookingID   int64
	Payload     string
	Status      string // pending, retry, done, failed
	RetryCount  int
	LastError   sql.NullString
	CreatedAt   time.Time
	ProcessedAt sql.NullTime
	NextRetryAt sql.NullTime
}
