package repository

import (
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
}

// RefreshTokenRepositoryInterface defines the contract for refresh token repository operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	FindValidByHash(tokenHash string) (*models.RefreshToken, error)
	RevokeByHash(tokenHash string) error
	RevokeAllForUser(userID uint) error
}

// PasswordResetRepositoryInterface defines the contract for password reset token operations
type PasswordResetRepositoryInterface interface {
	Create(token *models.PasswordResetToken) error
	FindValidByHash(tokenHash string) (*models.PasswordResetToken, error)
	MarkUsedByHash(tokenHash string) error
}

// ClubRepositoryInterface defines the contract for club repository operations
type ClubRepositoryInterface interface {
	Create(club *models.Club) error
	FindByID(id uint) (*models.Club, error)
	FindByInviteCode(code string) (*models.Club, error)
	ListPublic(limit int) ([]models.Club, error)
	SetCurrentBook(clubID uint, bookID uint) error
	ListByCurrentBook(bookID uint) ([]models.Club, error)
	AddMember(clubID, userID uint, role models.ClubRole) error
	RemoveMember(clubID, userID uint) error
	GetMembers(clubID uint) ([]models.ClubMember, error)
	GetMembership(clubID, userID uint) (*models.ClubMember, error)
	GetUserClubs(userID uint) ([]models.Club, error)
}

// BookRepositoryInterface defines the contract for book repository operations
type BookRepositoryInterface interface {
	UpsertByCatalogKey(book *models.Book) error
	FindByID(id uint) (*models.Book, error)
}

// ChapterRepositoryInterface defines the contract for chapter repository operations
type ChapterRepositoryInterface interface {
	Create(chapter *models.Chapter) error
	FindByID(id uint) (*models.Chapter, error)
	ListByClub(clubID uint) ([]models.Chapter, error)
	Delete(id uint) error
}

// DiscussionRepositoryInterface defines the contract for discussion repository operations
type DiscussionRepositoryInterface interface {
	Create(discussion *models.Discussion) error
	FindByID(id uint) (*models.Discussion, error)
	ListByClub(clubID uint) ([]models.Discussion, error)
	AddComment(comment *models.Comment) error
}

// ProgressRepositoryInterface defines the contract for reading progress operations
type ProgressRepositoryInterface interface {
	Upsert(progress *models.ReadingProgress) error
	Get(userID, bookID, clubID uint) (*models.ReadingProgress, error)
	ListByClub(clubID uint) ([]models.ReadingProgress, error)
}
