package models

import (
	"time"
)

// PasswordResetToken is a single-use credential for the forgot-password
// flow. Only the SHA-256 hash of the token is stored.
type PasswordResetToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	TokenHash string     `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	UsedAt    *time.Time `json:"-"`
}

func (t *PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}
