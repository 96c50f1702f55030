package models

// RoomType is a category of rooms sharing one flat nightly price.
// Reference data: seeded from the inventory file, never mutated at runtime.
type RoomType struct {
	ID    int64  `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Price int64  `yaml:"price" json:"price"`
}

// Room is one physical bookable unit belonging to exactly one RoomType.
type Room struct {
	ID         int64  `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	RoomTypeID int64  `yaml:"room_type_id" json:"room_type_id"`
}

// RoomInfo is a listing row: a room joined with its type's current price.
type RoomInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Price int64  `json:"price"`
}

// FreeRoom is an allocation candidate produced by the availability query.
type FreeRoom struct {
	ID    int64
	Price int64
}
