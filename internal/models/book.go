package models

import "time"

// Book is canonical catalog metadata, deduplicated across clubs by the
// Open Library key.
type Book struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OpenLibraryKey   *string `gorm:"uniqueIndex" json:"open_library_key"`
	Title            string  `gorm:"size:500;not null" json:"title"`
	AuthorName       string  `gorm:"size:255;not null" json:"author_name"`
	CoverURL         *string `json:"cover_url"`
	Description      *string `json:"description"`
	ISBN             *string `json:"isbn"`
	PageCount        *int    `json:"page_count"`
	FirstPublishYear *int    `json:"first_publish_year"`
}

type Chapter struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ClubID        uint   `gorm:"not null;index" json:"club_id"`
	BookID        uint   `gorm:"not null" json:"book_id"`
	Title         string `gorm:"size:200;not null" json:"title"`
	ChapterNumber int    `gorm:"not null" json:"chapter_number"`
	StartPage     *int   `json:"start_page"`
	EndPage       *int   `json:"end_page"`
}
