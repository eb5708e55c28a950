package repository

import (
	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type ClubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Create(club *models.Club) error {
	return r.db.Create(club).Error
}

func (r *ClubRepository) FindByID(id uint) (*models.Club, error) {
	var club models.Club
	err := r.db.Preload("Members").Preload("Members.User").
		Preload("Creator").Preload("CurrentBook").
		First(&club, id).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) FindByInviteCode(code string) (*models.Club, error) {
	var club models.Club
	err := r.db.Where("invite_code = ?", code).
		Preload("CurrentBook").
		First(&club).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *ClubRepository) ListPublic(limit int) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.Where("is_public = true").
		Order("created_at DESC").
		Limit(limit).
		Preload("CurrentBook").
		Find(&clubs).Error
	return clubs, err
}

func (r *ClubRepository) SetCurrentBook(clubID uint, bookID uint) error {
	return r.db.Model(&models.Club{}).Where("id = ?", clubID).
		Update("current_book_id", bookID).Error
}

func (r *ClubRepository) ListByCurrentBook(bookID uint) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.Where("current_book_id = ?", bookID).Find(&clubs).Error
	return clubs, err
}

func (r *ClubRepository) AddMember(clubID, userID uint, role models.ClubRole) error {
	member := models.ClubMember{
		ClubID: clubID,
		UserID: userID,
		Role:   role,
	}
	return r.db.Create(&member).Error
}

func (r *ClubRepository) RemoveMember(clubID, userID uint) error {
	return r.db.Where("club_id = ? AND user_id = ?", clubID, userID).Delete(&models.ClubMember{}).Error
}

func (r *ClubRepository) GetMembers(clubID uint) ([]models.ClubMember, error) {
	var members []models.ClubMember
	err := r.db.Where("club_id = ?", clubID).
		Preload("User").
		Find(&members).Error
	return members, err
}

// GetMembership reads the membership row fresh. Role checks always go
// through here rather than trusting anything client-supplied.
func (r *ClubRepository) GetMembership(clubID, userID uint) (*models.ClubMember, error) {
	var member models.ClubMember
	if err := r.db.Where("club_id = ? AND user_id = ?", clubID, userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *ClubRepository) GetUserClubs(userID uint) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.Joins("JOIN club_members ON club_members.club_id = clubs.id").
		Where("club_members.user_id = ?", userID).
		Preload("CurrentBook").
		Find(&clubs).Error
	return clubs, err
}
