package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *PasswordResetRepository) FindValidByHash(tokenHash string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := r.db.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, time.Now()).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *PasswordResetRepository) MarkUsedByHash(tokenHash string) error {
	now := time.Now()
	return r.db.Model(&models.PasswordResetToken{}).
		Where("token_hash = ? AND used_at IS NULL", tokenHash).
		Update("used_at", &now).Error
}
