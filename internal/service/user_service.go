// Package service holds account and follow-graph logic on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"socialnet/internal/cache"
	"socialnet/internal/models"
	"socialnet/internal/repository"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNicknameLen = 80
	maxEmailLen    = 120
	minPasswordLen = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

// UserService manages accounts.
type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Nickname string
	Email    string
	Password string
}

// NewUserService returns a UserService hashing passwords with the given bcrypt cost.
func NewUserService(userRepo repository.UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{userRepo: userRepo, bcryptCost: bcryptCost}
}

// Register validates the input, hashes the password and stores the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	nickname := strings.TrimSpace(in.Nickname)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if nickname == "" {
		return nil, models.NewValidationError("Nickname is required")
	}
	if len(nickname) > maxNicknameLen {
		return nil, models.NewValidationError("Nickname too long (max 80 characters)")
	}
	if len(email) > maxEmailLen {
		return nil, models.NewValidationError("Email too long (max 120 characters)")
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}
	if len(in.Password) > maxPasswordLen {
		return nil, models.NewValidationError("Password too long (max 72 bytes)")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Nickname: nickname,
		Email:    email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches its stored hash.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// Profile returns the serialized user, served from the cache when possible.
func (s *UserService) Profile(ctx context.Context, id uint) (map[string]any, error) {
	var profile map[string]any
	err := cache.Aside(ctx, cache.UserKey(id), &profile, cache.UserTTL, func() error {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		profile = user.Serialize()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListUsers returns a page of users ordered by id.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// DeleteAccount removes the user along with their posts and comments.
func (s *UserService) DeleteAccount(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}
