package repository

import (
	"context"
	"errors"

	"streamsite/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PasswordChange inspects the locked user row and returns the new password
// hash, or an error to abort the change.
type PasswordChange func(user *models.User) (string, error)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// UpdatePassword runs change against the current row and stores the hash
	// it returns, all in one transaction.
	UpdatePassword(ctx context.Context, id uint, change PasswordChange) error
	ListAdmins(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, end := startOp(ctx, r.db, "users", "get")
	defer func() { end(err) }()

	var user models.User
	if err = r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	ctx, end := startOp(ctx, r.db, "users", "get_by_username")
	defer func() { end(err) }()

	var user models.User
	err = r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewMissingError("User " + username + " not found")
	}
	if err != nil {
		return nil, mapError(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := startOp(ctx, r.db, "users", "create")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Create(user).Error
	return mapError(err, "User", user.Username)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, change PasswordChange) (err error) {
	ctx, end := startOp(ctx, r.db, "users", "update_password")
	defer func() { end(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if isPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var user models.User
		if err := q.First(&user, id).Error; err != nil {
			return err
		}
		hash, err := change(&user)
		if err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
	})
	return mapError(err, "User", id)
}

func (r *userRepository) ListAdmins(ctx context.Context) (users []models.User, err error) {
	ctx, end := startOp(ctx, r.db, "users", "list_admins")
	defer func() { end(err) }()

	users = []models.User{}
	if err = r.db.WithContext(ctx).Where("is_admin = ?", true).Order("id ASC").Find(&users).Error; err != nil {
		return nil, mapError(err, "User", nil)
	}
	return users, nil
}
