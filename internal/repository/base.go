// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"streamsite/internal/models"
	"streamsite/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Repositories bundles every repository the API needs, so storage backends
// can be swapped as a unit.
type Repositories struct {
	Users         UserRepository
	Streams       StreamRepository
	Announcements AnnouncementRepository
	Gallery       GalleryRepository
	SiteSettings  SiteSettingsRepository
}

// NewGormRepositories returns GORM-backed repositories (PostgreSQL or SQLite).
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Streams:       NewStreamRepository(db),
		Announcements: NewAnnouncementRepository(db),
		Gallery:       NewGalleryRepository(db),
		SiteSettings:  NewSiteSettingsRepository(db),
	}
}

// startOp opens a span and a latency timer for one repository call. The
// returned func must be called with the call's final error.
func startOp(ctx context.Context, db *gorm.DB, table, op string) (context.Context, func(error)) {
	done := observability.TrackQuery(op, table)
	ctx, span := observability.StartRepositorySpan(ctx, db.Dialector.Name(), table, op)
	return ctx, func(err error) {
		done()
		if errors.Is(err, models.ErrNotFound) {
			err = nil
		}
		observability.EndSpan(span, err)
	}
}

// isUniqueViolation recognizes duplicate-key errors from pgx, from SQLite and
// from GORM's translated form.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapError converts GORM/driver errors into AppErrors. AppErrors pass through.
func mapError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	if isUniqueViolation(err) {
		return models.NewConflictError(resource+" already exists", err)
	}
	return models.NewInternalError(err)
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
