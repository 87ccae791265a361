package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"parkscan/internal/db"
)

// Sentinel errors mapped to the API taxonomy at the service layer.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateOrder = errors.New("reservation already exists for this order")
)

// ReservationFilters narrows a reservation listing. Zero values mean
// no filtering on that field.
type ReservationFilters struct {
	ParkingLot string
	Date       string // YYYY-MM-DD
	Search     string // case-insensitive substring over name/email
}

// ReservationPatch carries the staff-editable fields. Nil pointers
// leave the stored value untouched.
type ReservationPatch struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	VehicleMake     *string
	VehicleModel    *string
	VehicleColor    *string
	ParkingLot      *string
	ReservationDate *time.Time
}

type ReservationRepository interface {
	Create(res *db.Reservation) error
	GetByID(id string) (*db.Reservation, error)
	GetByQRToken(token string) (*db.Reservation, error)
	GetByOrderID(orderID string) (*db.Reservation, error)
	List(filters ReservationFilters) ([]db.Reservation, error)
	Recent(limit int) ([]db.Reservation, error)
	UpdateFields(id string, patch ReservationPatch) (*db.Reservation, error)
}

type reservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) ReservationRepository {
	return &reservationRepository{DB: database}
}

const reservationColumns = `id, webflow_order_id, customer_name, customer_email, customer_phone,
	vehicle_make, vehicle_model, vehicle_color, parking_lot, reservation_date, qr_token, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }, res *db.Reservation) error {
	return row.Scan(
		&res.ID, &res.WebflowOrderID, &res.CustomerName, &res.CustomerEmail, &res.CustomerPhone,
		&res.VehicleMake, &res.VehicleModel, &res.VehicleColor, &res.ParkingLot, &res.ReservationDate,
		&res.QRToken, &res.CreatedAt, &res.UpdatedAt,
	)
}

func (r *reservationRepository) Create(res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(id, webflow_order_id, customer_name, customer_email, customer_phone, vehicle_make, vehicle_model, vehicle_color, parking_lot, reservation_date, qr_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query,
		res.ID,
		res.WebflowOrderID,
		res.CustomerName,
		res.CustomerEmail,
		res.CustomerPhone,
		res.VehicleMake,
		res.VehicleModel,
		res.VehicleColor,
		res.ParkingLot,
		res.ReservationDate,
		res.QRToken,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "webflow_order_id") {
				return ErrDuplicateOrder
			}
			// A qr_token collision is a hard failure, never an
			// overwrite. Token granularity makes it negligible.
			return fmt.Errorf("unique constraint %s violated: %w", pqErr.Constraint, err)
		}
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) getOne(where string, arg interface{}) (*db.Reservation, error) {
	var res db.Reservation
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + where
	err := scanReservation(r.DB.QueryRow(query, arg), &res)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return &res, nil
}

func (r *reservationRepository) GetByID(id string) (*db.Reservation, error) {
	return r.getOne("id = $1", id)
}

func (r *reservationRepository) GetByQRToken(token string) (*db.Reservation, error) {
	return r.getOne("qr_token = $1", token)
}

func (r *reservationRepository) GetByOrderID(orderID string) (*db.Reservation, error) {
	return r.getOne("webflow_order_id = $1", orderID)
}

func (r *reservationRepository) List(filters ReservationFilters) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filters.ParkingLot != "" {
		query += " AND parking_lot = $" + strconv.Itoa(idx)
		args = append(args, filters.ParkingLot)
		idx++
	}
	if filters.Date != "" {
		query += " AND reservation_date = $" + strconv.Itoa(idx)
		args = append(args, filters.Date)
		idx++
	}
	if filters.Search != "" {
		query += " AND (customer_name ILIKE $" + strconv.Itoa(idx) + " OR customer_email ILIKE $" + strconv.Itoa(idx) + ")"
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	query += " ORDER BY reservation_date DESC, created_at DESC"

	return r.queryMany(query, args...)
}

func (r *reservationRepository) Recent(limit int) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC LIMIT $1`
	return r.queryMany(query, limit)
}

func (r *reservationRepository) queryMany(query string, args ...interface{}) ([]db.Reservation, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateFields(id string, patch ReservationPatch) (*db.Reservation, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = $"+strconv.Itoa(idx))
		args = append(args, value)
		idx++
	}

	if patch.CustomerName != nil {
		appendSet("customer_name", *patch.CustomerName)
	}
	if patch.CustomerEmail != nil {
		appendSet("customer_email", *patch.CustomerEmail)
	}
	if patch.CustomerPhone != nil {
		appendSet("customer_phone", *patch.CustomerPhone)
	}
	if patch.VehicleMake != nil {
		appendSet("vehicle_make", *patch.VehicleMake)
	}
	if patch.VehicleModel != nil {
		appendSet("vehicle_model", *patch.VehicleModel)
	}
	if patch.VehicleColor != nil {
		appendSet("vehicle_color", *patch.VehicleColor)
	}
	if patch.ParkingLot != nil {
		appendSet("parking_lot", *patch.ParkingLot)
	}
	if patch.ReservationDate != nil {
		appendSet("reservation_date", *patch.ReservationDate)
	}

	if len(sets) == 0 {
		return r.GetByID(id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := `UPDATE reservations SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(idx) + ` RETURNING ` + reservationColumns
	args = append(args, id)

	var res db.Reservation
	if err := scanReservation(r.DB.QueryRow(query, args...), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating reservation: %w", err)
	}
	return &res, nil
}
