package entities

// OrderWebhookRequest is the payload the e-commerce platform posts on
// a completed order. Field names follow the sender's camelCase format.
type OrderWebhookRequest struct {
	OrderID         string `json:"orderId"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	VehicleMake     string `json:"vehicleMake,omitempty"`
	VehicleModel    string `json:"vehicleModel,omitempty"`
	VehicleColor    string `json:"vehicleColor,omitempty"`
	ParkingLot      string `json:"parkingLot"`
	ReservationDate string `json:"reservationDate"` // YYYY-MM-DD
}
