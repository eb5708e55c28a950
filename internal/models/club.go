package models

import (
	"time"

	"gorm.io/gorm"
)

type ClubRole string

const (
	RoleAdmin  ClubRole = "admin"
	RoleMember ClubRole = "member"
)

type Club struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string  `gorm:"size:100;not null" json:"name"`
	Description   string  `gorm:"size:500" json:"description"`
	IsPublic      bool    `gorm:"default:false" json:"is_public"`
	InviteCode    *string `gorm:"uniqueIndex" json:"invite_code,omitempty"`
	CreatedBy     uint    `gorm:"not null" json:"created_by"`
	CurrentBookID *uint   `json:"current_book_id"`

	// Associations
	Creator     User         `gorm:"foreignKey:CreatedBy" json:"creator"`
	CurrentBook *Book        `gorm:"foreignKey:CurrentBookID" json:"current_book,omitempty"`
	Members     []ClubMember `gorm:"foreignKey:ClubID" json:"members"`
}

type ClubMember struct {
	ClubID   uint      `gorm:"primaryKey" json:"club_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	Role     ClubRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Club Club `gorm:"foreignKey:ClubID" json:"-"`
}
