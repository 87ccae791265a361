package repository

import (
	"database/sql"
	"fmt"
	"time"

	"parkscan/internal/db"
)

type JobRepository interface {
	PendingReservationsForDate(date time.Time) ([]db.Reservation, error)
}

type jobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) JobRepository {
	return &jobRepository{DB: database}
}

// PendingReservationsForDate returns the reservations on a calendar
// date that have no check_in event yet, i.e. the customers a reminder
// should go to.
func (r *jobRepository) PendingReservationsForDate(date time.Time) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.reservation_date = $1
		  AND NOT EXISTS (
			SELECT 1 FROM check_in_logs l
			WHERE l.reservation_id = r.id AND l.event_type = $2
		  )
		ORDER BY r.created_at`
	rows, err := r.DB.Query(query, date.Format("2006-01-02"), db.EventCheckIn)
	if err != nil {
		return nil, fmt.Errorf("error querying pending reservations for date: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, fmt.Errorf("error scanning pending reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating pending reservations: %w", err)
	}
	return reservations, nil
}
