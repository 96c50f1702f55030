package database

import (
	"context"
	"database/sql"
	"fmt"

	"innkeep/internal/models"
)

// SeedInventory upserts room types and rooms from the inventory config.
// Reference data only; existing bookings are untouched.
func (db *DB) SeedInventory(ctx context.Context, types []models.RoomType, rooms []models.Room) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	typeQuery := `INSERT INTO room_types (id, name, price) VALUES (?, ?, ?)
                  ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price`
	for _, t := range types {
		if _, err := tx.ExecContext(ctx, typeQuery, t.ID, t.Name, t.Price); err != nil {
			return fmt.Errorf("failed to seed room type %d: %w", t.ID, err)
		}
	}

	roomQuery := `INSERT INTO rooms (id, name, room_type_id) VALUES (?, ?, ?)
                  ON CONFLICT(id) DO UPDATE SET name = excluded.name, room_type_id = excluded.room_type_id`
	for _, r := range rooms {
		if _, err := tx.ExecContext(ctx, roomQuery, r.ID, r.Name, r.RoomTypeID); err != nil {
			return fmt.Errorf("failed to seed room %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inventory seed: %w", err)
	}

	db.log.Info().Int("room_types", len(types)).Int("rooms", len(rooms)).Msg("inventory seeded")
	return nil
}

// ListRooms returns every room joined with its type name and current price,
// ordered by room id.
func (db *DB) ListRooms(ctx context.Context) ([]models.RoomInfo, error) {
	query := `SELECT r.id, r.name, t.name, t.price
              FROM rooms r
              INNER JOIN room_types t ON r.room_type_id = t.id
              ORDER BY r.id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var infos []models.RoomInfo
	for rows.Next() {
		var info models.RoomInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Type, &info.Price); err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read room rows: %w", err)
	}

	return infos, nil
}

// GetRoomType returns one room type or ErrNotFound.
func (db *DB) GetRoomType(ctx context.Context, id int64) (*models.RoomType, error) {
	var t models.RoomType
	err := db.QueryRowContext(ctx,
		`SELECT id, name, price FROM room_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Price)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room type: %w", err)
	}
	return &t, nil
}
