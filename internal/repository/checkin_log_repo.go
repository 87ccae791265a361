package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"parkscan/internal/db"
)

// CheckInLogRepository is the append-only ledger of check-in and
// check-out events. Rows are never updated or deleted.
type CheckInLogRepository interface {
	Insert(logRow *db.CheckInLog) error
	ListByReservation(reservationID string) ([]db.CheckInLog, error)
	ListByReservations(reservationIDs []string) (map[string][]db.CheckInLog, error)
	CountEventsBetween(eventType string, from, to time.Time) (int, error)
}

type checkInLogRepository struct {
	DB *sql.DB
}

func NewCheckInLogRepository(database *sql.DB) CheckInLogRepository {
	return &checkInLogRepository{DB: database}
}

func (r *checkInLogRepository) Insert(logRow *db.CheckInLog) error {
	query := `
		INSERT INTO check_in_logs (id, reservation_id, event_type, event_time, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.DB.QueryRow(query,
		logRow.ID,
		logRow.ReservationID,
		logRow.EventType,
		logRow.EventTime,
		logRow.Notes,
		logRow.CreatedAt,
	).Scan(&logRow.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting check-in log: %w", err)
	}
	return nil
}

// ListByReservation returns a reservation's events newest first.
func (r *checkInLogRepository) ListByReservation(reservationID string) ([]db.CheckInLog, error) {
	query := `
		SELECT id, reservation_id, event_type, event_time, notes, created_at
		FROM check_in_logs
		WHERE reservation_id = $1
		ORDER BY event_time DESC, created_at DESC`
	rows, err := r.DB.Query(query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("error querying check-in logs: %w", err)
	}
	defer rows.Close()
	return scanLogs(rows)
}

// ListByReservations batches the log history for a set of
// reservations, newest first within each reservation.
func (r *checkInLogRepository) ListByReservations(reservationIDs []string) (map[string][]db.CheckInLog, error) {
	byReservation := make(map[string][]db.CheckInLog, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return byReservation, nil
	}

	query := `
		SELECT id, reservation_id, event_type, event_time, notes, created_at
		FROM check_in_logs
		WHERE reservation_id = ANY($1)
		ORDER BY event_time DESC, created_at DESC`
	rows, err := r.DB.Query(query, pq.Array(reservationIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying check-in logs: %w", err)
	}
	defer rows.Close()

	logs, err := scanLogs(rows)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		byReservation[l.ReservationID] = append(byReservation[l.ReservationID], l)
	}
	return byReservation, nil
}

func (r *checkInLogRepository) CountEventsBetween(eventType string, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM check_in_logs WHERE event_type = $1 AND event_time >= $2 AND event_time < $3`
	if err := r.DB.QueryRow(query, eventType, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting check-in events: %w", err)
	}
	return count, nil
}

func scanLogs(rows *sql.Rows) ([]db.CheckInLog, error) {
	var logs []db.CheckInLog
	for rows.Next() {
		var l db.CheckInLog
		if err := rows.Scan(&l.ID, &l.ReservationID, &l.EventType, &l.EventTime, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning check-in log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating check-in logs: %w", err)
	}
	return logs, nil
}
