package domain

import (
	"context"
	"time"

	"innkeep/internal/models"
)

// Repository is the reservation store: inventory listing, the availability
// evaluator and the booking committer.
type Repository interface {
	ListRooms(ctx context.Context) ([]models.RoomInfo, error)
	GetRoomType(ctx context.Context, id int64) (*models.RoomType, error)
	FreeRooms(ctx context.Context, roomTypeID int64, checkin, checkout, now time.Time, limit int) ([]models.FreeRoom, error)
	CheckAvailability(ctx context.Context, roomTypeID int64, amount int, checkin, checkout, now time.Time) (bool, error)
	CreateBooking(ctx context.Context, booking *models.Booking, roomTypeID int64, amount int, now time.Time) ([]int64, int64, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	BookedRoomIDs(ctx context.Context, bookingID int64) ([]int64, error)
	ListBookingRows(ctx context.Context, from, to time.Time) ([]models.BookingExportRow, error)
}

// EventPublisher publishes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts export tasks for committed bookings.
type SyncWorker interface {
	EnqueueBooking(ctx context.Context, booking *models.Booking, roomIDs []int64, total int64) error
}

// SheetsWriter appends committed bookings to an external spreadsheet.
type SheetsWriter interface {
	AppendBooking(ctx context.Context, booking *models.Booking, rooms string, total int64) error
}

// Notifier tells staff about a committed booking. Best effort.
type Notifier interface {
	BookingCreated(booking *models.Booking, roomIDs []int64, total int64) error
}

// RoomsCache holds the serialized rooms listing with a TTL.
type RoomsCache interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, payload []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// BookingService is the transport-facing surface of the reservation core.
type BookingService interface {
	ListRooms(ctx context.Context) ([]models.RoomInfo, error)
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (string, error)
	CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error)
	ListBookingRows(ctx context.Context, from, to time.Time) ([]models.BookingExportRow, error)
}

// AvailabilityRequest carries a parsed availability query.
type AvailabilityRequest struct {
	RoomTypeID int64
	Amount     int
	Checkin    time.Time
	Checkout   time.Time
}

// BookingRequest carries a parsed booking commit request.
type BookingRequest struct {
	RoomTypeID int64
	Amount     int
	Email      string
	Name       string
	Checkin    time.Time
	Checkout   time.Time
}

// BookingResult reports the commit outcome: SUCCESS with a total, or FAILED
// with total zero when not enough rooms are free.
type BookingResult struct {
	Status    string `json:"status"`
	Total     int64  `json:"total"`
	BookingID int64  `json:"booking_id,omitempty"`
}
