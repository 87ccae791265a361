package service

import (
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkscan/internal/auth"
	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/repository"
)

type StaffAuthService interface {
	Login(email, password string) (string, *entities.UserResponse, error)
	Verify(token string) (*entities.UserResponse, error)
	CreateStaff(email, password, name, role string) error
	SeedTestUser(email, password string) error
}

type staffAuthService struct {
	repo   repository.StaffAuthRepository
	secret string
}

func NewStaffAuthService(repo repository.StaffAuthRepository, secret string) StaffAuthService {
	return &staffAuthService{repo: repo, secret: secret}
}

// Login exchanges credentials for a signed bearer token.
func (s *staffAuthService) Login(email, password string) (string, *entities.UserResponse, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, err
	}
	return token, userResponse(user.ID, user.Email, user.Name, user.Role), nil
}

// Verify validates a bearer token and returns the user it belongs to.
func (s *staffAuthService) Verify(token string) (*entities.UserResponse, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token")
	}
	user, err := s.repo.GetByEmail(claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized("Invalid token")
	}
	return userResponse(user.ID, user.Email, user.Name, user.Role), nil
}

func (s *staffAuthService) CreateStaff(email, password, name, role string) error {
	if email == "" || password == "" {
		return apperrors.InvalidArgument("email and password cannot be empty")
	}
	if role != "admin" && role != "staff" {
		return apperrors.InvalidArgument("role must be admin or staff")
	}
	return s.repo.Create(email, password, name, role)
}

// SeedTestUser creates the configured test login if it does not exist.
// Only called when ENABLE_TEST_LOGIN is set; production configs never
// reach this path.
func (s *staffAuthService) SeedTestUser(email, password string) error {
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if err := s.repo.Create(email, password, "Test User", "admin"); err != nil {
		return err
	}
	log.Printf("Seeded test login %s", email)
	return nil
}

func userResponse(id, email, name, role string) *entities.UserResponse {
	return &entities.UserResponse{ID: id, Email: email, Name: name, Role: role}
}
