package repositories

import (
	"errors"
	"strings"

	"fishlog_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	// FindByLogin ищет по username или email
	FindByLogin(db *gorm.DB, login string) (*models.User, error)
	MarkVerified(db *gorm.DB, userID string) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var count int64
	err := db.Model(&models.User{}).
		Where("LOWER(email) = ? OR LOWER(username) = ?", strings.ToLower(user.Email), strings.ToLower(user.Username)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *userRepository) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	return r.findOne(db, "LOWER(username) = ?", strings.ToLower(username))
}

func (r *userRepository) FindByLogin(db *gorm.DB, login string) (*models.User, error) {
	login = strings.ToLower(login)
	return r.findOne(db, "LOWER(username) = ? OR LOWER(email) = ?", login, login)
}

func (r *userRepository) MarkVerified(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("is_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
