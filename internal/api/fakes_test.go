package api

import (
	"sort"
	"strings"
	"sync"
	"time"

	"parkscan/internal/db"
	"parkscan/internal/repository"
	"parkscan/internal/service"
)

// Minimal in-memory repositories for driving the real services through
// the HTTP layer.

type memReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]db.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: make(map[string]db.Reservation)}
}

func (m *memReservationRepo) Create(res *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reservations {
		if existing.WebflowOrderID == res.WebflowOrderID {
			return repository.ErrDuplicateOrder
		}
	}
	m.reservations[res.ID] = *res
	return nil
}

func (m *memReservationRepo) GetByID(id string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (m *memReservationRepo) GetByQRToken(token string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.reservations {
		if res.QRToken == token {
			out := res
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReservationRepo) GetByOrderID(orderID string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.reservations {
		if res.WebflowOrderID == orderID {
			out := res
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReservationRepo) List(filters repository.ReservationFilters) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, res := range m.reservations {
		if filters.ParkingLot != "" && res.ParkingLot != filters.ParkingLot {
			continue
		}
		if filters.Date != "" && res.ReservationDate.Format("2006-01-02") != filters.Date {
			continue
		}
		if filters.Search != "" {
			needle := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(res.CustomerName), needle) &&
				!strings.Contains(strings.ToLower(res.CustomerEmail), needle) {
				continue
			}
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationDate.After(out[j].ReservationDate) })
	return out, nil
}

func (m *memReservationRepo) Recent(limit int) ([]db.Reservation, error) {
	out, _ := m.List(repository.ReservationFilters{})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memReservationRepo) UpdateFields(id string, patch repository.ReservationPatch) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.CustomerName != nil {
		res.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		res.CustomerEmail = *patch.CustomerEmail
	}
	if patch.ParkingLot != nil {
		res.ParkingLot = *patch.ParkingLot
	}
	if patch.ReservationDate != nil {
		res.ReservationDate = *patch.ReservationDate
	}
	res.UpdatedAt = time.Now().UTC()
	m.reservations[id] = res
	return &res, nil
}

type memLogRepo struct {
	mu   sync.Mutex
	logs []db.CheckInLog
}

func (m *memLogRepo) Insert(logRow *db.CheckInLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *logRow)
	return nil
}

func (m *memLogRepo) ListByReservation(reservationID string) ([]db.CheckInLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.CheckInLog
	for _, l := range m.logs {
		if l.ReservationID == reservationID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventTime.After(out[j].EventTime) })
	return out, nil
}

func (m *memLogRepo) ListByReservations(reservationIDs []string) (map[string][]db.CheckInLog, error) {
	byReservation := make(map[string][]db.CheckInLog)
	for _, id := range reservationIDs {
		logs, _ := m.ListByReservation(id)
		if len(logs) > 0 {
			byReservation[id] = logs
		}
	}
	return byReservation, nil
}

func (m *memLogRepo) CountEventsBetween(eventType string, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, l := range m.logs {
		if l.EventType == eventType && !l.EventTime.Before(from) && l.EventTime.Before(to) {
			count++
		}
	}
	return count, nil
}

// dropEnqueuer discards notifications; handler tests assert on HTTP
// behavior only.
type dropEnqueuer struct{}

func (dropEnqueuer) Enqueue(service.Notification) {}

var testLots = map[string]int{"Lombardi": 100, "Military": 150}
