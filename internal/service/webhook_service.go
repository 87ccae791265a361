package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkscan/internal/db"
	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/metrics"
	"parkscan/internal/repository"
	"parkscan/internal/utils"
)

// WebhookService turns a completed e-commerce order into a reservation
// with a scannable QR token.
type WebhookService struct {
	Repo     repository.ReservationRepository
	Logs     repository.CheckInLogRepository
	qr       *QRCodeService
	notifier NotificationEnqueuer
	lots     map[string]int
	metrics  metrics.Recorder
}

func NewWebhookService(
	repo repository.ReservationRepository,
	logs repository.CheckInLogRepository,
	qr *QRCodeService,
	notifier NotificationEnqueuer,
	lotCapacities map[string]int,
	rec metrics.Recorder,
) *WebhookService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &WebhookService{
		Repo:     repo,
		Logs:     logs,
		qr:       qr,
		notifier: notifier,
		lots:     lotCapacities,
		metrics:  rec,
	}
}

// IngestResult reports whether the order created a new reservation or
// matched an existing one (webhook senders redeliver).
type IngestResult struct {
	Reservation entities.ReservationResponse
	Created     bool
}

// IngestOrder validates the payload, mints the QR token and stores the
// reservation. A redelivered order id returns the existing reservation
// instead of a second row; the uniqueness constraint on the order id
// closes the lookup-then-insert race. The confirmation notification is
// fire-and-forget and never fails the ingestion.
func (s *WebhookService) IngestOrder(req *entities.OrderWebhookRequest) (*IngestResult, error) {
	var missing []string
	if req.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if req.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if req.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if req.ParkingLot == "" {
		missing = append(missing, "parkingLot")
	}
	if req.ReservationDate == "" {
		missing = append(missing, "reservationDate")
	}
	if len(missing) > 0 {
		return nil, apperrors.InvalidArgument("Missing required fields: " + strings.Join(missing, ", "))
	}
	date, err := time.Parse("2006-01-02", req.ReservationDate)
	if err != nil {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid reservationDate %q, expected YYYY-MM-DD", req.ReservationDate))
	}

	now := time.Now().UTC()
	res := &db.Reservation{
		ID:              uuid.NewString(),
		WebflowOrderID:  req.OrderID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		VehicleMake:     req.VehicleMake,
		VehicleModel:    req.VehicleModel,
		VehicleColor:    req.VehicleColor,
		ParkingLot:      utils.CanonicalLot(req.ParkingLot, s.lots),
		ReservationDate: date,
		QRToken:         mintQRToken(req.OrderID, now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(res); err != nil {
		if errors.Is(err, repository.ErrDuplicateOrder) {
			existing, getErr := s.Repo.GetByOrderID(req.OrderID)
			if getErr != nil {
				return nil, getErr
			}
			logs, logErr := s.Logs.ListByReservation(existing.ID)
			if logErr != nil {
				return nil, logErr
			}
			log.Printf("Webhook redelivery for order %s, returning existing reservation %s", req.OrderID, existing.ID)
			s.metrics.RecordOrderIngested(false)
			return &IngestResult{Reservation: buildReservationResponse(existing, logs, s.qr), Created: false}, nil
		}
		log.Printf("Error creating reservation for order %s: %v", req.OrderID, err)
		return nil, err
	}
	s.metrics.RecordOrderIngested(true)

	resp := buildReservationResponse(res, nil, s.qr)
	s.notifier.Enqueue(buildConfirmationNotification(res, resp.QRCodeDataURL))

	return &IngestResult{Reservation: resp, Created: true}, nil
}

// mintQRToken builds the scan token for an order. The token is the
// stored lookup key; the rendered image is derived from it on demand.
func mintQRToken(orderID string, at time.Time) string {
	return fmt.Sprintf("RES-%s-%d", orderID, at.UnixMilli())
}
