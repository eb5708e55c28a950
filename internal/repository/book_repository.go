package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// UpsertByCatalogKey inserts the book or, when another club already
// saved the same Open Library key, updates the existing row in place so
// clubs reading the same book share one record.
func (r *BookRepository) UpsertByCatalogKey(book *models.Book) error {
	if book.OpenLibraryKey == nil {
		return r.db.Create(book).Error
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "open_library_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "author_name", "cover_url", "isbn", "page_count", "first_publish_year",
		}),
	}).Create(book).Error
}

func (r *BookRepository) FindByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}
