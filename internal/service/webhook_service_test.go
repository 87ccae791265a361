package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/metrics"
)

var testLots = map[string]int{"Lombardi": 100, "Military": 150}

// rec is the interface type so a nil argument reaches the constructor
// as a nil interface and its Nop fallback engages.
func newTestWebhookService(repo *fakeReservationRepo, logs *fakeLogRepo, enq *captureEnqueuer, rec metrics.Recorder) *WebhookService {
	return NewWebhookService(repo, logs, NewQRCodeService(), enq, testLots, rec)
}

func validOrder() *entities.OrderWebhookRequest {
	return &entities.OrderWebhookRequest{
		OrderID:         "WF-1",
		CustomerName:    "Ana Torres",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "+14145550100",
		VehicleMake:     "Toyota",
		VehicleModel:    "Corolla",
		VehicleColor:    "Blue",
		ParkingLot:      "Lombardi",
		ReservationDate: "2026-09-12",
	}
}

func TestIngestOrderCreatesReservation(t *testing.T) {
	repo := newFakeReservationRepo()
	enq := &captureEnqueuer{}
	rec := newCountingRecorder()
	svc := newTestWebhookService(repo, newFakeLogRepo(), enq, rec)

	result, err := svc.IngestOrder(validOrder())
	require.NoError(t, err)
	require.True(t, result.Created)

	res := result.Reservation
	assert.Equal(t, "WF-1", res.WebflowOrderID)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, "2026-09-12", res.ReservationDate)
	assert.Regexp(t, regexp.MustCompile(`^RES-WF-1-\d+$`), res.QRToken)
	assert.Contains(t, res.QRCodeDataURL, "data:image/png;base64,")
	assert.Empty(t, res.CheckInLogs)

	stored, err := repo.GetByOrderID("WF-1")
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)
	assert.Equal(t, 1, rec.ordersCreated)
}

func TestIngestOrderQueuesConfirmation(t *testing.T) {
	enq := &captureEnqueuer{}
	svc := newTestWebhookService(newFakeReservationRepo(), newFakeLogRepo(), enq, nil)

	result, err := svc.IngestOrder(validOrder())
	require.NoError(t, err)

	queued := enq.all()
	require.Len(t, queued, 1)
	assert.Equal(t, NotifyConfirmation, queued[0].Kind)
	assert.Equal(t, "ana@example.com", queued[0].ToEmail)
	assert.Equal(t, "+14145550100", queued[0].ToPhone)
	assert.Equal(t, result.Reservation.QRToken, queued[0].Ref)
	assert.Contains(t, queued[0].HTMLBody, result.Reservation.QRCodeDataURL)
	assert.NotEmpty(t, queued[0].SMSBody)
}

func TestIngestOrderMissingFields(t *testing.T) {
	enq := &captureEnqueuer{}
	svc := newTestWebhookService(newFakeReservationRepo(), newFakeLogRepo(), enq, nil)

	req := validOrder()
	req.CustomerEmail = ""
	req.ParkingLot = ""

	_, err := svc.IngestOrder(req)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "customerEmail")
	assert.Contains(t, err.Error(), "parkingLot")
	assert.Empty(t, enq.all(), "no notification on a rejected order")
}

func TestIngestOrderBadDate(t *testing.T) {
	svc := newTestWebhookService(newFakeReservationRepo(), newFakeLogRepo(), &captureEnqueuer{}, nil)

	req := validOrder()
	req.ReservationDate = "09/12/2026"

	_, err := svc.IngestOrder(req)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))
}

func TestIngestOrderRedelivery(t *testing.T) {
	repo := newFakeReservationRepo()
	enq := &captureEnqueuer{}
	rec := newCountingRecorder()
	svc := newTestWebhookService(repo, newFakeLogRepo(), enq, rec)

	first, err := svc.IngestOrder(validOrder())
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := svc.IngestOrder(validOrder())
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Reservation.ID, second.Reservation.ID)
	assert.Equal(t, first.Reservation.QRToken, second.Reservation.QRToken)

	assert.Len(t, enq.all(), 1, "redelivery must not resend the confirmation")
	assert.Equal(t, 1, rec.ordersCreated)
	assert.Equal(t, 1, rec.ordersDup)
}

func TestIngestOrderCanonicalizesLot(t *testing.T) {
	svc := newTestWebhookService(newFakeReservationRepo(), newFakeLogRepo(), &captureEnqueuer{}, nil)

	req := validOrder()
	req.ParkingLot = "  lombardi "

	result, err := svc.IngestOrder(req)
	require.NoError(t, err)
	assert.Equal(t, "Lombardi", result.Reservation.ParkingLot)
}
