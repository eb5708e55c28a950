package repository

import (
	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type DiscussionRepository struct {
	db *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

func (r *DiscussionRepository) Create(discussion *models.Discussion) error {
	return r.db.Create(discussion).Error
}

func (r *DiscussionRepository) FindByID(id uint) (*models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		First(&discussion, id).Error
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (r *DiscussionRepository) ListByClub(clubID uint) ([]models.Discussion, error) {
	var discussions []models.Discussion
	err := r.db.Where("club_id = ?", clubID).
		Order("created_at DESC").
		Preload("Author").
		Find(&discussions).Error
	return discussions, err
}

func (r *DiscussionRepository) AddComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}
