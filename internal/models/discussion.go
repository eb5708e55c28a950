package models

import "time"

type Discussion struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClubID    uint   `gorm:"not null;index" json:"club_id"`
	BookID    *uint  `json:"book_id"`
	ChapterID *uint  `json:"chapter_id"`
	AuthorID  uint   `gorm:"not null" json:"author_id"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Content   string `gorm:"size:5000" json:"content"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments []Comment `gorm:"foreignKey:DiscussionID" json:"comments"`
}

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DiscussionID uint   `gorm:"not null;index" json:"discussion_id"`
	AuthorID     uint   `gorm:"not null" json:"author_id"`
	Content      string `gorm:"size:2000;not null" json:"content"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
