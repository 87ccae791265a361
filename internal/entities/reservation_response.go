package entities

import "time"

type CheckInLogResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type ReservationResponse struct {
	ID              string               `json:"id"`
	WebflowOrderID  string               `json:"webflow_order_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone,omitempty"`
	VehicleMake     string               `json:"vehicle_make,omitempty"`
	VehicleModel    string               `json:"vehicle_model,omitempty"`
	VehicleColor    string               `json:"vehicle_color,omitempty"`
	ParkingLot      string               `json:"parking_lot"`
	ReservationDate string               `json:"reservation_date"` // YYYY-MM-DD
	QRToken         string               `json:"qr_token"`
	QRCodeDataURL   string               `json:"qr_code_data_url,omitempty"`
	Status          string               `json:"status"`
	CheckInLogs     []CheckInLogResponse `json:"check_in_logs"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
