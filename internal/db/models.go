package db

import "time"

// Check-in ledger event types.
const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
)

type Reservation struct {
	ID              string
	WebflowOrderID  string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	VehicleMake     string
	VehicleModel    string
	VehicleColor    string
	ParkingLot      string
	ReservationDate time.Time // calendar date, no time component
	QRToken         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CheckInLog rows are append-only; they are never edited or deleted.
// EventTime is the scan time, distinct from CreatedAt.
type CheckInLog struct {
	ID            string
	ReservationID string
	EventType     string
	EventTime     time.Time
	Notes         string
	CreatedAt     time.Time
}

type StaffUser struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | staff
	CreatedAt    time.Time
}
