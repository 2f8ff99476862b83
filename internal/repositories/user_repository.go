package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orgaclients/internal/models/db_models"
)

type UserRepository interface {
	Insert(ctx context.Context, user *db_models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	ListByRole(ctx context.Context, role db_models.Role) ([]db_models.User, error)
	CountByRole(ctx context.Context, role db_models.Role) (int64, error)
	DeleteByRole(ctx context.Context, role db_models.Role) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// Insert returns gorm.ErrDuplicatedKey when the email is taken.
func (u *userRepository) Insert(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {

	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// ListByRole returns users newest first.
func (u *userRepository) ListByRole(ctx context.Context, role db_models.Role) ([]db_models.User, error) {
	var users []db_models.User
	err := u.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (u *userRepository) CountByRole(ctx context.Context, role db_models.Role) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&db_models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (u *userRepository) DeleteByRole(ctx context.Context, role db_models.Role) (int64, error) {
	res := u.db.WithContext(ctx).Where("role = ?", role).Delete(&db_models.User{})
	return res.RowsAffected, res.Error
}
