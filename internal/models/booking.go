package models

import "time"

// Booking is a guest's reservation header covering one date interval.
// Created once, immutable afterwards.
type Booking struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Checkin   time.Time `json:"checkin"`
	Checkout  time.Time `json:"checkout"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingExportRow is one line of the bookings report: a booking joined with
// its room names and a total recomputed from current type prices.
type BookingExportRow struct {
	ID       int64
	Email    string
	Name     string
	Checkin  time.Time
	Checkout time.Time
	Rooms    string
	Total    int64
}
