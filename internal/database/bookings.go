package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"innkeep/internal/models"
)

// queryer lets the availability query run against the pool or an open
// transaction; the booking committer reuses the same candidate selection
// inside its transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// freeRooms returns rooms of the given type with no booking overlapping the
// requested interval, ordered by room id ascending. limit > 0 caps the
// result. A check-in that is not strictly after now yields an empty set, as
// does an unknown room type; neither is an error.
func freeRooms(ctx context.Context, q queryer, roomTypeID int64, requested models.Interval, now time.Time, limit int) ([]models.FreeRoom, error) {
	if !requested.Start.After(now) {
		return nil, nil
	}

	query := `SELECT r.id, t.price, b.checkin, b.checkout
              FROM rooms r
              INNER JOIN room_types t ON r.room_type_id = t.id
              LEFT JOIN booked_rooms br ON br.room_id = r.id
              LEFT JOIN bookings b ON b.id = br.booking_id
              WHERE r.room_type_id = ?
              ORDER BY r.id ASC`

	rows, err := q.QueryContext(ctx, query, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query free rooms: %w", err)
	}
	defer rows.Close()

	var (
		order   []int64
		prices  = make(map[int64]int64)
		blocked = make(map[int64]bool)
	)
	for rows.Next() {
		var (
			roomID            int64
			price             int64
			checkin, checkout sql.NullTime
		)
		if err := rows.Scan(&roomID, &price, &checkin, &checkout); err != nil {
			return nil, fmt.Errorf("failed to scan free room row: %w", err)
		}

		if _, seen := prices[roomID]; !seen {
			prices[roomID] = price
			order = append(order, roomID)
		}

		if checkin.Valid && checkout.Valid {
			existing := models.Interval{Start: checkin.Time, End: checkout.Time}
			if models.Overlaps(requested, existing) {
				blocked[roomID] = true
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read free room rows: %w", err)
	}

	var free []models.FreeRoom
	for _, id := range order {
		if blocked[id] {
			continue
		}
		free = append(free, models.FreeRoom{ID: id, Price: prices[id]})
		if limit > 0 && len(free) == limit {
			break
		}
	}
	return free, nil
}

// FreeRooms runs the availability evaluator outside a transaction.
func (db *DB) FreeRooms(ctx context.Context, roomTypeID int64, checkin, checkout, now time.Time, limit int) ([]models.FreeRoom, error) {
	return freeRooms(ctx, db.DB, roomTypeID, models.Interval{Start: checkin, End: checkout}, now, limit)
}

// CheckAvailability reports whether at least amount rooms of the type are
// free over the interval. Read-only.
func (db *DB) CheckAvailability(ctx context.Context, roomTypeID int64, amount int, checkin, checkout, now time.Time) (bool, error) {
	free, err := db.FreeRooms(ctx, roomTypeID, checkin, checkout, now, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return len(free) >= amount, nil
}

// CreateBooking atomically assigns amount free rooms of the type to a new
// booking. Candidate selection and the inserts share one transaction; on
// ErrNotAvailable or any fault the ledger is left unchanged. Returns the
// assigned room ids and the total price.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking, roomTypeID int64, amount int, now time.Time) ([]int64, int64, error) {
	if amount < 1 {
		return nil, 0, fmt.Errorf("amount must be positive, got %d", amount)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	requested := models.Interval{Start: booking.Checkin, End: booking.Checkout}
	candidates, err := freeRooms(ctx, tx, roomTypeID, requested, now, amount)
	if err != nil {
		return nil, 0, err
	}
	if len(candidates) < amount {
		return nil, 0, ErrNotAvailable
	}

	created := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (email, name, checkin, checkout, created_at) VALUES (?, ?, ?, ?, ?)`,
		booking.Email, booking.Name, booking.Checkin, booking.Checkout, created,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	bookingID, err := result.LastInsertId()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	var (
		roomIDs []int64
		total   int64
	)
	for _, c := range candidates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO booked_rooms (room_id, booking_id) VALUES (?, ?)`,
			c.ID, bookingID,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to link room %d: %w", c.ID, err)
		}
		roomIDs = append(roomIDs, c.ID)
		total += c.Price
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.ID = bookingID
	booking.CreatedAt = created

	db.log.Info().
		Int64("booking_id", bookingID).
		Int64("room_type_id", roomTypeID).
		Int("rooms", len(roomIDs)).
		Int64("total", total).
		Msg("booking created")

	return roomIDs, total, nil
}

// GetBooking returns one booking header or ErrNotFound.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	err := db.QueryRowContext(ctx,
		`SELECT id, email, name, checkin, checkout, created_at FROM bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.Email, &b.Name, &b.Checkin, &b.Checkout, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// BookedRoomIDs returns the rooms assigned to a booking, ascending.
func (db *DB) BookedRoomIDs(ctx context.Context, bookingID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT room_id FROM booked_rooms WHERE booking_id = ? ORDER BY room_id ASC`, bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked rooms: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan booked room: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booked rooms: %w", err)
	}
	return ids, nil
}

// ListBookingRows returns bookings whose check-in falls inside [from, to],
// with assigned room names concatenated and the total price recomputed from
// current type prices.
func (db *DB) ListBookingRows(ctx context.Context, from, to time.Time) ([]models.BookingExportRow, error) {
	query := `SELECT b.id, b.email, b.name, b.checkin, b.checkout,
                     COALESCE(GROUP_CONCAT(r.name, ', '), ''),
                     COALESCE(SUM(t.price), 0)
              FROM bookings b
              LEFT JOIN booked_rooms br ON br.booking_id = b.id
              LEFT JOIN rooms r ON r.id = br.room_id
              LEFT JOIN room_types t ON t.id = r.room_type_id
              WHERE b.checkin >= ? AND b.checkin <= ?
              GROUP BY b.id
              ORDER BY b.checkin ASC, b.id ASC`

	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []models.BookingExportRow
	for rows.Next() {
		var row models.BookingExportRow
		if err := rows.Scan(&row.ID, &row.Email, &row.Name, &row.Checkin, &row.Checkout, &row.Rooms, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking rows: %w", err)
	}
	return out, nil
}
