package service

import (
	"errors"
	"strings"
	"time"

	"github.com/aasthafoundation/careboard/internal/auth"
	"github.com/aasthafoundation/careboard/internal/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single configured administrator.
type AuthService struct {
	admin     *models.User
	jwtSecret string
}

// NewAuthService hashes the configured password once at startup.
func NewAuthService(email, password, jwtSecret string) (*AuthService, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		ID:           "admin",
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         "Admin",
		Role:         "admin",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return &AuthService{admin: admin, jwtSecret: jwtSecret}, nil
}

type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.admin.Email {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, s.admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwtSecret, s.admin.ID, s.admin.Email, s.admin.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: s.admin.ToResponse()}, nil
}

func (s *AuthService) Me(userID string) (*models.UserResponse, error) {
	if userID != s.admin.ID {
		return nil, errors.New("user not found")
	}
	resp := s.admin.ToResponse()
	return &resp, nil
}
