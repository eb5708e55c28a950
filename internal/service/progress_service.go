package service

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
)

type ProgressService struct {
	progressRepo repository.ProgressRepositoryInterface
	bookRepo     repository.BookRepositoryInterface
	clubRepo     repository.ClubRepositoryInterface
}

func NewProgressService(
	progressRepo repository.ProgressRepositoryInterface,
	bookRepo repository.BookRepositoryInterface,
	clubRepo repository.ClubRepositoryInterface,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		bookRepo:     bookRepo,
		clubRepo:     clubRepo,
	}
}

// ComputePercentComplete derives the displayed percentage from a page
// position. Unknown or non-positive page/total yields 0. The result is
// always within [0, 100].
func ComputePercentComplete(currentPage, totalPages *int) int {
	if currentPage == nil || totalPages == nil {
		return 0
	}
	if *currentPage <= 0 || *totalPages <= 0 {
		return 0
	}
	percent := int(math.Round(float64(*currentPage) / float64(*totalPages) * 100))
	if percent > 100 {
		return 100
	}
	return percent
}

// RankProgress orders rows by percent complete, highest first. The sort
// is stable: members at the same percentage keep their input order, so
// ties never swap between renders of the same rows.
func RankProgress(rows []models.ReadingProgress) []models.ReadingProgress {
	ranked := make([]models.ReadingProgress, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PercentComplete > ranked[j].PercentComplete
	})
	return ranked
}

type UpdateProgressInput struct {
	ClubID         uint `json:"club_id"`
	BookID         uint `json:"book_id"`
	CurrentChapter int  `json:"current_chapter"`
	CurrentPage    *int `json:"current_page"`
}

// UpdateProgress upserts the caller's progress row for (user, book,
// club). Membership is re-read fresh before writing; the row is only
// ever mutated by its owning user.
func (s *ProgressService) UpdateProgress(userID uint, input UpdateProgressInput) (*models.ReadingProgress, error) {
	if userID == 0 {
		return nil, apperr.ErrUnauthorized
	}
	member, err := s.clubRepo.GetMembership(input.ClubID, userID)
	if err != nil || member == nil {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperr.ErrUnauthorized
	}

	if input.CurrentChapter < 0 {
		return nil, apperr.Validation("current chapter cannot be negative")
	}
	if input.CurrentPage != nil && *input.CurrentPage < 0 {
		return nil, apperr.Validation("current page cannot be negative")
	}

	book, err := s.bookRepo.FindByID(input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	progress := &models.ReadingProgress{
		UserID:          userID,
		BookID:          input.BookID,
		ClubID:          input.ClubID,
		CurrentChapter:  input.CurrentChapter,
		CurrentPage:     input.CurrentPage,
		PercentComplete: ComputePercentComplete(input.CurrentPage, book.PageCount),
		LastReadAt:      now,
	}
	if err := s.progressRepo.Upsert(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) GetProgress(userID, bookID, clubID uint) (*models.ReadingProgress, error) {
	progress, err := s.progressRepo.Get(userID, bookID, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet reads as zero progress.
			return &models.ReadingProgress{UserID: userID, BookID: bookID, ClubID: clubID}, nil
		}
		return nil, err
	}
	return progress, nil
}

// ListClubProgress returns the club's rows ranked for display.
func (s *ProgressService) ListClubProgress(clubID uint) ([]models.ReadingProgress, error) {
	rows, err := s.progressRepo.ListByClub(clubID)
	if err != nil {
		return nil, err
	}
	return RankProgress(rows), nil
}
