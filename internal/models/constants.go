package models

// Availability outcomes as reported to API clients.
const (
	Available    = "AVAILABLE"
	NotAvailable = "NOT AVAILABLE"
)

// Booking commit outcomes.
const (
	BookingSuccess = "SUCCESS"
	BookingFailed  = "FAILED"
)
