package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert writes the row keyed by (user_id, book_id, club_id). Concurrent
// writers racing on the same key converge to one final row here; no
// application-level locking.
func (r *ProgressRepository) Upsert(progress *models.ReadingProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "book_id"}, {Name: "club_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_chapter", "current_page", "percent_complete", "last_read_at", "updated_at",
		}),
	}).Create(progress).Error
}

func (r *ProgressRepository) Get(userID, bookID, clubID uint) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := r.db.Where("user_id = ? AND book_id = ? AND club_id = ?", userID, bookID, clubID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByClub(clubID uint) ([]models.ReadingProgress, error) {
	var rows []models.ReadingProgress
	err := r.db.Where("club_id = ?", clubID).
		Preload("User").
		Find(&rows).Error
	return rows, err
}
