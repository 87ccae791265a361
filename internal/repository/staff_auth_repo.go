package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"parkscan/internal/db"
)

type StaffAuthRepository interface {
	GetByEmail(email string) (*db.StaffUser, error)
	Create(email, password, name, role string) error
}

type staffAuthRepository struct {
	db *sql.DB
}

func NewStaffAuthRepository(database *sql.DB) StaffAuthRepository {
	return &staffAuthRepository{db: database}
}

// GetByEmail returns nil, nil when no user has that email.
func (r *staffAuthRepository) GetByEmail(email string) (*db.StaffUser, error) {
	var user db.StaffUser
	err := r.db.QueryRow(
		"SELECT id, email, password_hash, name, role FROM staff_users WHERE email = $1", email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *staffAuthRepository) Create(email, password, name, role string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	query := "INSERT INTO staff_users (id, email, password_hash, name, role) VALUES ($1, $2, $3, $4, $5)"
	_, err = r.db.Exec(query, uuid.NewString(), email, hashedPassword, name, role)
	return err
}
