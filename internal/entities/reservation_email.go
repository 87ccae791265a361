package entities

import "html/template"

// ReservationEmailData feeds the reservation email template.
// QRCodeDataURL is typed template.URL because the value is generated
// by us from the stored token; html/template would otherwise sanitize
// the data: scheme out of the img src.
type ReservationEmailData struct {
	CustomerName   string
	ParkingLot     string
	DateFormatted  string
	VehicleSummary string
	QRToken        string
	QRCodeDataURL  template.URL
	CurrentYear    int
}
