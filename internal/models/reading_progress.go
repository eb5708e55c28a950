package models

import "time"

// ReadingProgress records one user's position in one club's reading of a
// book. Unique per (user, book, club); written only via upsert by its
// owning user.
type ReadingProgress struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID          uint      `gorm:"not null;uniqueIndex:idx_progress_user_book_club" json:"user_id"`
	BookID          uint      `gorm:"not null;uniqueIndex:idx_progress_user_book_club" json:"book_id"`
	ClubID          uint      `gorm:"not null;uniqueIndex:idx_progress_user_book_club;index" json:"club_id"`
	CurrentChapter  int       `gorm:"default:0" json:"current_chapter"`
	CurrentPage     *int      `json:"current_page"`
	PercentComplete int       `gorm:"default:0" json:"percent_complete"`
	LastReadAt      time.Time `json:"last_read_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
