package service

import (
	"context"
	"errors"
	"strings"

	"streamsite/internal/middleware"
	"streamsite/internal/models"
	"streamsite/internal/observability"
	"streamsite/internal/repository"
	"streamsite/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = models.NewUnauthorizedError("Invalid credentials")

// AuthService checks admin credentials stored as bcrypt hashes on the user row.
type AuthService struct {
	users           repository.UserRepository
	defaultUsername string
	cost            int
}

// NewAuthService returns an AuthService. defaultUsername is used when a login
// omits the username.
func NewAuthService(users repository.UserRepository, defaultUsername string) *AuthService {
	return &AuthService{
		users:           users,
		defaultUsername: defaultUsername,
		cost:            bcrypt.DefaultCost,
	}
}

// Authenticate returns the admin user matching username and password.
// Any mismatch yields the same unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = s.defaultUsername
	}
	if password == "" {
		observability.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Validation failed",
			models.FieldError{Field: "password", Message: "is required"})
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			observability.AdminLoginsTotal.WithLabelValues("rejected").Inc()
			return nil, errInvalidCredentials
		}
		observability.AdminLoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !user.IsAdmin || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		observability.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		middleware.Logger.WarnContext(ctx, "admin login rejected", "username", username)
		return nil, errInvalidCredentials
	}

	observability.AdminLoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// ChangePassword replaces the stored hash for userID. When current is
// non-empty it must match the stored password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError("Validation failed",
			models.FieldError{Field: "newPassword", Message: err.Error()})
	}

	return s.users.UpdatePassword(ctx, userID, func(user *models.User) (string, error) {
		if current != "" && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
			return "", models.NewValidationError("Validation failed",
				models.FieldError{Field: "currentPassword", Message: "is incorrect"})
		}
		return s.hash(next)
	})
}

// EnsureAdmin creates the admin account if it does not exist. An existing
// account keeps its stored password.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		if !user.IsAdmin {
			middleware.Logger.WarnContext(ctx, "configured admin username belongs to a non-admin user",
				"username", username)
		}
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	user = &models.User{Username: username, Password: hash, IsAdmin: true}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// created concurrently by another instance
			return s.users.GetByUsername(ctx, username)
		}
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "admin account created", "username", username)
	return user, nil
}

// LookupAdmin loads the user behind an admin session.
func (s *AuthService) LookupAdmin(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(b), nil
}
