package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
)

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return translate(conn(ctx, r.db).Create(user).Error)
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepositoryImpl) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.first(ctx, "username = ? OR LOWER(email) = LOWER(?)", login, login)
}

func (r *UserRepositoryImpl) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where(query, args...).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "username = ?", username, excludeID)
}

func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

func (r *UserRepositoryImpl) exists(ctx context.Context, query string, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := conn(ctx, r.db).Model(&models.User{}).Where(query, value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update ใช้ Save เพื่อให้ค่า false/ว่าง ถูกเขียนลงด้วย
func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	return translate(conn(ctx, r.db).Save(user).Error)
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&models.User{}).Error
}

func (r *UserRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	var users []*models.User
	err := conn(ctx, r.db).Order("username ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Count(&count).Error
	return count, err
}
