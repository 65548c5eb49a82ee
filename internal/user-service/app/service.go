// Package app implements the user service: registration, credential
// verification with token issuance, and profile lookup over an in-memory
// store. Passwords are stored as bcrypt hashes and never leave the service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopmesh/shopmesh/internal/user-service/domain"
)

const tokenTTL = 24 * time.Hour

type Service struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User

	jwtSecret []byte
}

func NewService(jwtSecret []byte) *Service {
	return &Service{
		byID:      make(map[string]*domain.User),
		byEmail:   make(map[string]*domain.User),
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user with a bcrypt-hashed password. The email must
// be unused.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, domain.ErrEmailTaken
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues a signed bearer token carrying
// the user's id and email, valid for 24 hours.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	s.mu.RLock()
	user, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return signed, user, nil
}

// Profile returns the user by id.
func (s *Service) Profile(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
