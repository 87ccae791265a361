package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"parkscan/internal/db"
	"parkscan/internal/entities"
)

var reservationEmailTmpl = template.Must(template.New("reservation_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Parking Reservation {{if .QRCodeDataURL}}Confirmation{{else}}Reminder{{end}}</h2>
  <p>Hello {{.CustomerName}},</p>
  <p>Here are your reservation details:</p>
  <ul>
    <li>Parking lot: {{.ParkingLot}}</li>
    <li>Date: {{.DateFormatted}}</li>
    {{if .VehicleSummary}}<li>Vehicle: {{.VehicleSummary}}</li>{{end}}
    <li>Reservation code: {{.QRToken}}</li>
  </ul>
  {{if .QRCodeDataURL}}
  <p>Show this QR code to the attendant on arrival:</p>
  <img src="{{.QRCodeDataURL}}" alt="Reservation QR code" width="256" height="256"/>
  {{end}}
  <p>Thank you for parking with us.</p>
  <p style="color: #888;">&copy; {{.CurrentYear}} All rights reserved.</p>
</body>
</html>`))

func emailDataFor(res *db.Reservation, qrDataURL string) entities.ReservationEmailData {
	vehicle := strings.TrimSpace(strings.Join([]string{res.VehicleMake, res.VehicleModel}, " "))
	if res.VehicleColor != "" && vehicle != "" {
		vehicle = fmt.Sprintf("%s (%s)", vehicle, res.VehicleColor)
	}
	return entities.ReservationEmailData{
		CustomerName:   res.CustomerName,
		ParkingLot:     res.ParkingLot,
		DateFormatted:  res.ReservationDate.Format("Monday, January 2, 2006"),
		VehicleSummary: vehicle,
		QRToken:        res.QRToken,
		QRCodeDataURL:  template.URL(qrDataURL),
		CurrentYear:    time.Now().Year(),
	}
}

func renderEmailHTML(data entities.ReservationEmailData) string {
	var buf bytes.Buffer
	if err := reservationEmailTmpl.Execute(&buf, data); err != nil {
		log.Printf("Error rendering reservation email for %s: %v", data.QRToken, err)
		return ""
	}
	return buf.String()
}

// buildConfirmationNotification is the order-confirmation message sent
// after webhook ingestion, carrying the QR code the customer shows at
// the gate.
func buildConfirmationNotification(res *db.Reservation, qrDataURL string) Notification {
	data := emailDataFor(res, qrDataURL)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour parking reservation is confirmed.\n\n"+
			"Parking lot: %s\nDate: %s\nReservation code: %s\n\n"+
			"Show the attached QR code to the attendant on arrival.\n\n"+
			"Thank you for parking with us.",
		data.CustomerName, data.ParkingLot, data.DateFormatted, data.QRToken,
	)
	return Notification{
		Kind:      NotifyConfirmation,
		ToEmail:   res.CustomerEmail,
		ToName:    res.CustomerName,
		ToPhone:   res.CustomerPhone,
		Subject:   "Parking Reservation Confirmation",
		PlainBody: plain,
		HTMLBody:  renderEmailHTML(data),
		SMSBody: fmt.Sprintf("Your parking reservation for %s on %s is confirmed. Code: %s. Details in your email.",
			data.ParkingLot, res.ReservationDate.Format("01/02"), data.QRToken),
		Ref: res.QRToken,
	}
}

// buildReminderNotification is the morning-of reminder for customers
// who have not checked in yet.
func buildReminderNotification(res *db.Reservation, qrDataURL string) Notification {
	data := emailDataFor(res, qrDataURL)
	plain := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder of your parking reservation today.\n\n"+
			"Parking lot: %s\nDate: %s\nReservation code: %s\n\n"+
			"Show your QR code to the attendant on arrival.",
		data.CustomerName, data.ParkingLot, data.DateFormatted, data.QRToken,
	)
	return Notification{
		Kind:      NotifyReminder,
		ToEmail:   res.CustomerEmail,
		ToName:    res.CustomerName,
		Subject:   "Parking Reservation Reminder",
		PlainBody: plain,
		HTMLBody:  renderEmailHTML(data),
		Ref:       res.QRToken,
	}
}
