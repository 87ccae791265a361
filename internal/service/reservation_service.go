package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"parkscan/internal/db"
	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/metrics"
	"parkscan/internal/repository"
	"parkscan/internal/utils"
)

const defaultRecentLimit = 10

// ReservationService is the single source of truth for reservation
// queries and check-in state. Status never lives in a column; every
// response derives it from the log history.
type ReservationService struct {
	Repo    repository.ReservationRepository
	Logs    repository.CheckInLogRepository
	qr      *QRCodeService
	lots    map[string]int
	loc     *time.Location
	metrics metrics.Recorder
}

func NewReservationService(
	repo repository.ReservationRepository,
	logs repository.CheckInLogRepository,
	qr *QRCodeService,
	lotCapacities map[string]int,
	loc *time.Location,
	rec metrics.Recorder,
) *ReservationService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ReservationService{
		Repo:    repo,
		Logs:    logs,
		qr:      qr,
		lots:    lotCapacities,
		loc:     loc,
		metrics: rec,
	}
}

// ListReservations returns the filtered set ordered by reservation
// date descending, each with its full log history and QR image.
func (s *ReservationService) ListReservations(filters repository.ReservationFilters) ([]entities.ReservationResponse, error) {
	if filters.Date != "" {
		if _, err := time.Parse("2006-01-02", filters.Date); err != nil {
			return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid date filter %q, expected YYYY-MM-DD", filters.Date))
		}
	}
	rows, err := s.Repo.List(filters)
	if err != nil {
		log.Printf("Error listing reservations: %v", err)
		return nil, err
	}
	return s.buildResponses(rows)
}

func (s *ReservationService) GetByQRToken(token string) (*entities.ReservationResponse, error) {
	res, err := s.Repo.GetByQRToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	logs, err := s.Logs.ListByReservation(res.ID)
	if err != nil {
		return nil, err
	}
	resp := buildReservationResponse(res, logs, s.qr)
	return &resp, nil
}

// RecordEvent appends a check_in or check_out row. Events are
// deliberately not validated against the current derived status:
// duplicate or out-of-order scans are tolerated and the latest event
// wins. Validation happens before any mutation.
func (s *ReservationService) RecordEvent(reservationID, eventType, notes string) (*entities.ReservationResponse, error) {
	if eventType != db.EventCheckIn && eventType != db.EventCheckOut {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("unknown event type %q, expected check_in or check_out", eventType))
	}
	res, err := s.Repo.GetByID(reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}

	now := time.Now().UTC()
	logRow := &db.CheckInLog{
		ID:            uuid.NewString(),
		ReservationID: res.ID,
		EventType:     eventType,
		EventTime:     now,
		Notes:         notes,
		CreatedAt:     now,
	}
	if err := s.Logs.Insert(logRow); err != nil {
		log.Printf("Error recording %s for reservation %s: %v", eventType, res.ID, err)
		return nil, err
	}
	s.metrics.RecordCheckEvent(eventType)

	logs, err := s.Logs.ListByReservation(res.ID)
	if err != nil {
		return nil, err
	}
	resp := buildReservationResponse(res, logs, s.qr)
	return &resp, nil
}

// GetLogs returns a reservation's event history newest first.
func (s *ReservationService) GetLogs(reservationID string) ([]entities.CheckInLogResponse, error) {
	if _, err := s.Repo.GetByID(reservationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	logs, err := s.Logs.ListByReservation(reservationID)
	if err != nil {
		return nil, err
	}
	return mapLogs(logs), nil
}

// UpdateFields lets staff correct customer, vehicle, lot and date
// fields after creation. The log history is never touched.
func (s *ReservationService) UpdateFields(reservationID string, patch repository.ReservationPatch) (*entities.ReservationResponse, error) {
	if patch.ParkingLot != nil {
		lot := utils.CanonicalLot(*patch.ParkingLot, s.lots)
		patch.ParkingLot = &lot
	}
	res, err := s.Repo.UpdateFields(reservationID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Reservation not found")
		}
		return nil, err
	}
	logs, err := s.Logs.ListByReservation(res.ID)
	if err != nil {
		return nil, err
	}
	resp := buildReservationResponse(res, logs, s.qr)
	return &resp, nil
}

// ComputeStats folds the dashboard counters over the full reservation
// set using the same DeriveStatus rule as every other read, so the
// checked-in count always matches the per-reservation status.
func (s *ReservationService) ComputeStats() (*entities.StatsResponse, error) {
	rows, err := s.Repo.List(repository.ReservationFilters{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	logsByReservation, err := s.Logs.ListByReservations(ids)
	if err != nil {
		return nil, err
	}

	stats := &entities.StatsResponse{
		TotalReservations: len(rows),
		LotStats:          make(map[string]entities.LotStats, len(s.lots)),
	}
	for lot, capacity := range s.lots {
		stats.LotStats[lot] = entities.LotStats{Capacity: capacity}
	}

	for _, r := range rows {
		switch DeriveStatus(logsByReservation[r.ID]) {
		case StatusCheckedIn:
			stats.CheckedIn++
			lot := stats.LotStats[r.ParkingLot]
			lot.Occupied++
			stats.LotStats[r.ParkingLot] = lot
		case StatusCheckedOut:
			stats.CheckedOut++
		default:
			stats.Pending++
		}
	}

	dayStart, dayEnd := s.todayBounds()
	if stats.TodayCheckIns, err = s.Logs.CountEventsBetween(db.EventCheckIn, dayStart, dayEnd); err != nil {
		return nil, err
	}
	if stats.TodayCheckOuts, err = s.Logs.CountEventsBetween(db.EventCheckOut, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecentReservations returns the most recently created reservations.
func (s *ReservationService) RecentReservations(limit int) ([]entities.ReservationResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.Repo.Recent(limit)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(rows)
}

func (s *ReservationService) buildResponses(rows []db.Reservation) ([]entities.ReservationResponse, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	logsByReservation, err := s.Logs.ListByReservations(ids)
	if err != nil {
		return nil, err
	}
	responses := make([]entities.ReservationResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, buildReservationResponse(&rows[i], logsByReservation[rows[i].ID], s.qr))
	}
	return responses, nil
}

func (s *ReservationService) todayBounds() (time.Time, time.Time) {
	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

// buildReservationResponse assembles the API view of a reservation:
// derived status, ordered log history and the regenerated QR image.
func buildReservationResponse(res *db.Reservation, logs []db.CheckInLog, qr *QRCodeService) entities.ReservationResponse {
	resp := entities.ReservationResponse{
		ID:              res.ID,
		WebflowOrderID:  res.WebflowOrderID,
		CustomerName:    res.CustomerName,
		CustomerEmail:   res.CustomerEmail,
		CustomerPhone:   res.CustomerPhone,
		VehicleMake:     res.VehicleMake,
		VehicleModel:    res.VehicleModel,
		VehicleColor:    res.VehicleColor,
		ParkingLot:      res.ParkingLot,
		ReservationDate: res.ReservationDate.Format("2006-01-02"),
		QRToken:         res.QRToken,
		Status:          DeriveStatus(logs),
		CheckInLogs:     mapLogs(logs),
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
	dataURL, err := qr.DataURL(res.QRToken)
	if err != nil {
		log.Printf("Error rendering QR code for reservation %s: %v", res.ID, err)
	} else {
		resp.QRCodeDataURL = dataURL
	}
	return resp
}

func mapLogs(logs []db.CheckInLog) []entities.CheckInLogResponse {
	out := make([]entities.CheckInLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, entities.CheckInLogResponse{
			ID:        l.ID,
			Type:      l.EventType,
			Timestamp: l.EventTime,
			Notes:     l.Notes,
		})
	}
	return out
}
