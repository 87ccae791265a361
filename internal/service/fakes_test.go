package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"parkscan/internal/db"
	"parkscan/internal/repository"
)

// In-memory repository fakes mirroring the SQL implementations'
// ordering and filter semantics.

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]db.Reservation
	createErr    error
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[string]db.Reservation)}
}

func (f *fakeReservationRepo) Create(res *db.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.reservations {
		if existing.WebflowOrderID == res.WebflowOrderID {
			return repository.ErrDuplicateOrder
		}
	}
	f.reservations[res.ID] = *res
	return nil
}

func (f *fakeReservationRepo) GetByID(id string) (*db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (f *fakeReservationRepo) GetByQRToken(token string) (*db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.reservations {
		if res.QRToken == token {
			out := res
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationRepo) GetByOrderID(orderID string) (*db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.reservations {
		if res.WebflowOrderID == orderID {
			out := res
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationRepo) List(filters repository.ReservationFilters) ([]db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Reservation
	for _, res := range f.reservations {
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
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReservationDate.Equal(out[j].ReservationDate) {
			return out[i].ReservationDate.After(out[j].ReservationDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeReservationRepo) Recent(limit int) ([]db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Reservation
	for _, res := range f.reservations {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateFields(id string, patch repository.ReservationPatch) (*db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.CustomerName != nil {
		res.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		res.CustomerEmail = *patch.CustomerEmail
	}
	if patch.CustomerPhone != nil {
		res.CustomerPhone = *patch.CustomerPhone
	}
	if patch.VehicleMake != nil {
		res.VehicleMake = *patch.VehicleMake
	}
	if patch.VehicleModel != nil {
		res.VehicleModel = *patch.VehicleModel
	}
	if patch.VehicleColor != nil {
		res.VehicleColor = *patch.VehicleColor
	}
	if patch.ParkingLot != nil {
		res.ParkingLot = *patch.ParkingLot
	}
	if patch.ReservationDate != nil {
		res.ReservationDate = *patch.ReservationDate
	}
	res.UpdatedAt = time.Now().UTC()
	f.reservations[id] = res
	return &res, nil
}

type fakeLogRepo struct {
	mu        sync.Mutex
	logs      []db.CheckInLog
	insertErr error
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{}
}

func (f *fakeLogRepo) Insert(logRow *db.CheckInLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.logs = append(f.logs, *logRow)
	return nil
}

func (f *fakeLogRepo) ListByReservation(reservationID string) ([]db.CheckInLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.CheckInLog
	for _, l := range f.logs {
		if l.ReservationID == reservationID {
			out = append(out, l)
		}
	}
	sortLogsNewestFirst(out)
	return out, nil
}

func (f *fakeLogRepo) ListByReservations(reservationIDs []string) (map[string][]db.CheckInLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(reservationIDs))
	for _, id := range reservationIDs {
		wanted[id] = true
	}
	byReservation := make(map[string][]db.CheckInLog)
	for _, l := range f.logs {
		if wanted[l.ReservationID] {
			byReservation[l.ReservationID] = append(byReservation[l.ReservationID], l)
		}
	}
	for id := range byReservation {
		sortLogsNewestFirst(byReservation[id])
	}
	return byReservation, nil
}

func (f *fakeLogRepo) CountEventsBetween(eventType string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, l := range f.logs {
		if l.EventType == eventType && !l.EventTime.Before(from) && l.EventTime.Before(to) {
			count++
		}
	}
	return count, nil
}

func sortLogsNewestFirst(logs []db.CheckInLog) {
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].EventTime.Equal(logs[j].EventTime) {
			return logs[i].EventTime.After(logs[j].EventTime)
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
}

type fakeJobRepo struct {
	pending []db.Reservation
	err     error
}

func (f *fakeJobRepo) PendingReservationsForDate(time.Time) ([]db.Reservation, error) {
	return f.pending, f.err
}

// captureEnqueuer records enqueued notifications synchronously.
type captureEnqueuer struct {
	mu            sync.Mutex
	notifications []Notification
}

func (c *captureEnqueuer) Enqueue(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, n)
}

func (c *captureEnqueuer) all() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.notifications...)
}

// fakeSender records deliveries and can fail on demand.
type fakeSender struct {
	mu       sync.Mutex
	emails   []string
	sms      []string
	emailErr error
	smsErr   error
}

func (f *fakeSender) SendEmail(toEmail, _, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailErr != nil {
		return f.emailErr
	}
	f.emails = append(f.emails, toEmail)
	return nil
}

func (f *fakeSender) SendSMS(toNumber, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.smsErr != nil {
		return f.smsErr
	}
	f.sms = append(f.sms, toNumber)
	return nil
}

// countingRecorder tallies metric calls for assertions.
type countingRecorder struct {
	mu            sync.Mutex
	ordersCreated int
	ordersDup     int
	checkEvents   map[string]int
	notifications map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		checkEvents:   make(map[string]int),
		notifications: make(map[string]int),
	}
}

func (c *countingRecorder) RecordOrderIngested(created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if created {
		c.ordersCreated++
	} else {
		c.ordersDup++
	}
}

func (c *countingRecorder) RecordCheckEvent(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkEvents[eventType]++
}

func (c *countingRecorder) RecordNotification(kind string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	c.notifications[kind+"/"+outcome]++
}

var errBoom = errors.New("boom")
