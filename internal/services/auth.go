package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/repositories"
)

const TokenIssuer = "interview-assistant"

type AuthService interface {
	Login(email, password string) (string, error)
	SeedReviewer(email, password string) error
}

type authService struct {
	reviewers repositories.ReviewerRepository
	secret    []byte
	ttl       time.Duration
}

func NewAuthService(reviewers repositories.ReviewerRepository, secret string, ttl time.Duration) AuthService {
	return &authService{
		reviewers: reviewers,
		secret:    []byte(secret),
		ttl:       ttl,
	}
}

// Login checks credentials and issues an HS256 token for the dashboard.
func (s *authService) Login(email, password string) (string, error) {
	reviewer, err := s.reviewers.FindByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reviewer.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   reviewer.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// SeedReviewer creates the configured reviewer account if it does not exist.
func (s *authService) SeedReviewer(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.reviewers.FindByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.reviewers.Create(&models.Reviewer{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
}
