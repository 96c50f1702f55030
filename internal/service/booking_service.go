package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/internal/database"
	"innkeep/internal/domain"
	"innkeep/internal/events"
	"innkeep/internal/models"

	"github.com/rs/zerolog"
)

// BookingService validates inbound requests, runs them against the store and
// fans out events, export tasks and notifications for committed bookings.
type BookingService struct {
	repo       domain.Repository
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	notifier   domain.Notifier
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, notifier domain.Notifier, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:       repo,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *BookingService) ListRooms(ctx context.Context) ([]models.RoomInfo, error) {
	return s.repo.ListRooms(ctx)
}

func (s *BookingService) ListBookingRows(ctx context.Context, from, to time.Time) ([]models.BookingExportRow, error) {
	return s.repo.ListBookingRows(ctx, from, to)
}

// CheckAvailability reports AVAILABLE or NOT AVAILABLE. A check-in at or
// before now is a legitimate NOT AVAILABLE, not an error; only missing or
// malformed fields raise ErrIncompleteRequest.
func (s *BookingService) CheckAvailability(ctx context.Context, req domain.AvailabilityRequest) (string, error) {
	if err := validateInterval(req.RoomTypeID, req.Amount, req.Checkin, req.Checkout); err != nil {
		return "", err
	}

	ok, err := s.repo.CheckAvailability(ctx, req.RoomTypeID, req.Amount, req.Checkin, req.Checkout, s.now())
	if err != nil {
		return "", fmt.Errorf("availability check: %w", err)
	}
	if !ok {
		return models.NotAvailable, nil
	}
	return models.Available, nil
}

// CreateBooking commits a booking. Insufficient rooms yield a FAILED result
// with total zero and no error; storage faults are returned as errors.
func (s *BookingService) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.BookingResult, error) {
	if err := validateInterval(req.RoomTypeID, req.Amount, req.Checkin, req.Checkout); err != nil {
		return nil, err
	}
	if req.Email == "" || req.Name == "" {
		return nil, ErrIncompleteRequest
	}

	booking := &models.Booking{
		Email:    req.Email,
		Name:     req.Name,
		Checkin:  req.Checkin,
		Checkout: req.Checkout,
	}

	roomIDs, total, err := s.repo.CreateBooking(ctx, booking, req.RoomTypeID, req.Amount, s.now())
	if errors.Is(err, database.ErrNotAvailable) {
		return &domain.BookingResult{Status: models.BookingFailed, Total: 0}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("booking commit: %w", err)
	}

	s.publishCreated(booking, req.RoomTypeID, roomIDs, total)
	s.enqueueExport(ctx, booking, roomIDs, total)
	s.notify(booking, roomIDs, total)

	return &domain.BookingResult{Status: models.BookingSuccess, Total: total, BookingID: booking.ID}, nil
}

func validateInterval(roomTypeID int64, amount int, checkin, checkout time.Time) error {
	if roomTypeID <= 0 || amount <= 0 {
		return ErrIncompleteRequest
	}
	if checkin.IsZero() || checkout.IsZero() {
		return ErrIncompleteRequest
	}
	if !checkin.Before(checkout) {
		return ErrIncompleteRequest
	}
	return nil
}

func (s *BookingService) publishCreated(booking *models.Booking, roomTypeID int64, roomIDs []int64, total int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		Email:      booking.Email,
		Name:       booking.Name,
		RoomTypeID: roomTypeID,
		RoomIDs:    roomIDs,
		Checkin:    booking.Checkin,
		Checkout:   booking.Checkout,
		Total:      total,
	}

	if err := s.eventBus.PublishJSON(events.EventBookingCreated, payload); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context, booking *models.Booking, roomIDs []int64, total int64) {
	if s.syncWorker == nil {
		return
	}
	if err := s.syncWorker.EnqueueBooking(ctx, booking, roomIDs, total); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("export enqueue error")
	}
}

func (s *BookingService) notify(booking *models.Booking, roomIDs []int64, total int64) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BookingCreated(booking, roomIDs, total); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("notify error")
	}
}
