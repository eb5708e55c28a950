package repository

import (
	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type ChapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

func (r *ChapterRepository) Create(chapter *models.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *ChapterRepository) FindByID(id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterRepository) ListByClub(clubID uint) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.Where("club_id = ?", clubID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	return chapters, err
}

func (r *ChapterRepository) Delete(id uint) error {
	return r.db.Delete(&models.Chapter{}, id).Error
}
