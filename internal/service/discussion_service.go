package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
	"github.com/andrewjordancampbell/TurnTogether/internal/validation"
)

type DiscussionService struct {
	discussionRepo repository.DiscussionRepositoryInterface
	clubRepo       repository.ClubRepositoryInterface
}

func NewDiscussionService(
	discussionRepo repository.DiscussionRepositoryInterface,
	clubRepo repository.ClubRepositoryInterface,
) *DiscussionService {
	return &DiscussionService{
		discussionRepo: discussionRepo,
		clubRepo:       clubRepo,
	}
}

type CreateDiscussionInput struct {
	ClubID    uint   `json:"club_id"`
	BookID    *uint  `json:"book_id"`
	ChapterID *uint  `json:"chapter_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

func (s *DiscussionService) CreateDiscussion(authorID uint, input CreateDiscussionInput) (*models.Discussion, error) {
	if err := s.requireMember(input.ClubID, authorID); err != nil {
		return nil, err
	}

	title := validation.TrimAndLimit(input.Title, validation.MaxTitleLength)
	if title == "" {
		return nil, apperr.Validation("discussion title is required")
	}
	content := validation.TrimAndLimit(input.Content, validation.MaxContentLength)

	discussion := &models.Discussion{
		ClubID:    input.ClubID,
		BookID:    input.BookID,
		ChapterID: input.ChapterID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
	}
	if err := s.discussionRepo.Create(discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

// AddComment appends a comment by authorID. The author id is fixed at
// insert and never updated afterwards.
func (s *DiscussionService) AddComment(authorID, discussionID uint, content string) (*models.Comment, error) {
	discussion, err := s.discussionRepo.FindByID(discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if err := s.requireMember(discussion.ClubID, authorID); err != nil {
		return nil, err
	}

	content = validation.TrimAndLimit(content, validation.MaxCommentLength)
	if content == "" {
		return nil, apperr.Validation("comment cannot be empty")
	}

	comment := &models.Comment{
		DiscussionID: discussionID,
		AuthorID:     authorID,
		Content:      content,
	}
	if err := s.discussionRepo.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *DiscussionService) GetDiscussion(id uint) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return discussion, nil
}

func (s *DiscussionService) ListDiscussions(clubID uint) ([]models.Discussion, error) {
	return s.discussionRepo.ListByClub(clubID)
}

func (s *DiscussionService) requireMember(clubID, userID uint) error {
	if userID == 0 {
		return apperr.ErrUnauthorized
	}
	_, err := s.clubRepo.GetMembership(clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrUnauthorized
		}
		return err
	}
	return nil
}
