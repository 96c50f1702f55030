package database

import (
	"context"
	"os"
	"testing"

	"innkeep/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedTestInventory(t *testing.T, db *DB) {
	types := []models.RoomType{
		{ID: 1, Name: "Standard", Price: 100},
		{ID: 2, Name: "Suite", Price: 250},
	}
	rooms := []models.Room{
		{ID: 1, Name: "101", RoomTypeID: 1},
		{ID: 2, Name: "102", RoomTypeID: 1},
		{ID: 3, Name: "103", RoomTypeID: 1},
		{ID: 4, Name: "201", RoomTypeID: 2},
	}
	require.NoError(t, db.SeedInventory(context.Background(), types, rooms))
}

func TestSeedInventoryIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)
	seedTestInventory(t, db)

	infos, err := db.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 4)
}

func TestListRooms(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	infos, err := db.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, models.RoomInfo{ID: 1, Name: "101", Type: "Standard", Price: 100}, infos[0])
	assert.Equal(t, models.RoomInfo{ID: 4, Name: "201", Type: "Suite", Price: 250}, infos[3])
}

func TestListRoomsReflectsCurrentPrice(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	// Re-seed with a changed price; listing must never report a stale one.
	require.NoError(t, db.SeedInventory(context.Background(),
		[]models.RoomType{{ID: 1, Name: "Standard", Price: 120}}, nil))

	infos, err := db.ListRooms(context.Background())
	require.NoError(t, err)
	for _, info := range infos {
		if info.Type == "Standard" {
			assert.Equal(t, int64(120), info.Price)
		}
	}
}

func TestGetRoomType(t *testing.T) {
	db := setupTestDB(t)
	seedTestInventory(t, db)

	rt, err := db.GetRoomType(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Suite", rt.Name)
	assert.Equal(t, int64(250), rt.Price)

	_, err = db.GetRoomType(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
