package api

import "parkscan/internal/entities"

// Auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type LoginResponse struct {
	Token string                `json:"token"`
	User  entities.UserResponse `json:"user"`
}

// Check-in / check-out ledger append
type LogEventRequest struct {
	Type  string `json:"type"`
	Notes string `json:"notes,omitempty"`
}

// Staff edit of a reservation's mutable fields. Nil means unchanged.
type UpdateReservationRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	VehicleMake     *string `json:"vehicle_make"`
	VehicleModel    *string `json:"vehicle_model"`
	VehicleColor    *string `json:"vehicle_color"`
	ParkingLot      *string `json:"parking_lot"`
	ReservationDate *string `json:"reservation_date"` // YYYY-MM-DD
}

// Webhook response mirrors the sender-facing camelCase format.
type OrderWebhookResponse struct {
	Message       string                       `json:"message"`
	Reservation   entities.ReservationResponse `json:"reservation"`
	QRCodeDataURL string                       `json:"qrCodeDataUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
