package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/books"
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
	"github.com/andrewjordancampbell/TurnTogether/internal/validation"
)

type ClubService struct {
	clubRepo    repository.ClubRepositoryInterface
	bookRepo    repository.BookRepositoryInterface
	chapterRepo repository.ChapterRepositoryInterface
}

func NewClubService(
	clubRepo repository.ClubRepositoryInterface,
	bookRepo repository.BookRepositoryInterface,
	chapterRepo repository.ChapterRepositoryInterface,
) *ClubService {
	return &ClubService{
		clubRepo:    clubRepo,
		bookRepo:    bookRepo,
		chapterRepo: chapterRepo,
	}
}

func (s *ClubService) CreateClub(name, description string, isPublic bool, creatorID uint) (*models.Club, error) {
	name = strings.TrimSpace(name)
	if !validation.ValidateClubName(name) {
		return nil, apperr.Validation("club name is required and must be at most %d characters", validation.MaxClubNameLength)
	}
	description = validation.TrimAndLimit(description, validation.MaxDescriptionLength)

	code := generateInviteCode()
	club := &models.Club{
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
		InviteCode:  &code,
		CreatedBy:   creatorID,
	}

	if err := s.clubRepo.Create(club); err != nil {
		return nil, err
	}

	// Creator is the club's first admin.
	if err := s.clubRepo.AddMember(club.ID, creatorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	return s.clubRepo.FindByID(club.ID)
}

func (s *ClubService) GetClub(clubID uint) (*models.Club, error) {
	club, err := s.clubRepo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return club, nil
}

func (s *ClubService) GetUserClubs(userID uint) ([]models.Club, error) {
	return s.clubRepo.GetUserClubs(userID)
}

func (s *ClubService) DiscoverPublicClubs(limit int) ([]models.Club, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.clubRepo.ListPublic(limit)
}

func (s *ClubService) GetMembers(clubID uint) ([]models.ClubMember, error) {
	return s.clubRepo.GetMembers(clubID)
}

// JoinClub adds userID to the club as a plain member. The membership row
// is re-read immediately before inserting so a duplicate join reports
// AlreadyMember instead of creating a second row.
func (s *ClubService) JoinClub(clubID, userID uint) error {
	club, err := s.clubRepo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if !club.IsPublic {
		return apperr.ErrUnauthorized
	}
	return s.addMember(clubID, userID)
}

// JoinByInviteCode joins private or public clubs through the club's
// invite code.
func (s *ClubService) JoinByInviteCode(code string, userID uint) (*models.Club, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Validation("invite code is required")
	}
	club, err := s.clubRepo.FindByInviteCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if err := s.addMember(club.ID, userID); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *ClubService) addMember(clubID, userID uint) error {
	isMember, err := s.IsMember(clubID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return apperr.ErrAlreadyMember
	}
	return s.clubRepo.AddMember(clubID, userID, models.RoleMember)
}

func (s *ClubService) LeaveClub(clubID, userID uint) error {
	return s.clubRepo.RemoveMember(clubID, userID)
}

// IsMember answers from a fresh membership read. An anonymous user
// (userID 0) is never a member.
func (s *ClubService) IsMember(clubID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	_, err := s.clubRepo.GetMembership(clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsAdmin implies IsMember: it is true only when a membership row exists
// and carries the admin role.
func (s *ClubService) IsAdmin(clubID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	member, err := s.clubRepo.GetMembership(clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role == models.RoleAdmin, nil
}

// MemberOf answers membership from rows the caller already holds, for
// render-time checks that must not hit the store again.
func MemberOf(members []models.ClubMember, userID uint) bool {
	if userID == 0 {
		return false
	}
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// AdminOf is MemberOf restricted to the admin role.
func AdminOf(members []models.ClubMember, userID uint) bool {
	if userID == 0 {
		return false
	}
	for _, m := range members {
		if m.UserID == userID {
			return m.Role == models.RoleAdmin
		}
	}
	return false
}

// SetCurrentBook saves the catalog pick and points the club at it.
// Admin status is re-derived from a fresh membership row; the role is a
// privilege boundary and is never taken from the request.
func (s *ClubService) SetCurrentBook(clubID, userID uint, pick books.SearchResult) (*models.Book, error) {
	isAdmin, err := s.IsAdmin(clubID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.ErrUnauthorized
	}

	if strings.TrimSpace(pick.Title) == "" {
		return nil, apperr.Validation("book title is required")
	}

	book := &models.Book{
		Title:            pick.Title,
		AuthorName:       pick.AuthorName,
		CoverURL:         pick.CoverURL,
		ISBN:             pick.ISBN,
		PageCount:        pick.PageCount,
		FirstPublishYear: pick.FirstPublishYear,
	}
	if pick.OpenLibraryKey != "" {
		key := pick.OpenLibraryKey
		book.OpenLibraryKey = &key
	}

	if err := s.bookRepo.UpsertByCatalogKey(book); err != nil {
		return nil, err
	}
	if err := s.clubRepo.SetCurrentBook(clubID, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// AggregateAlsoReading counts the other clubs currently pointing at the
// same book. Display only; never used for authorization.
func AggregateAlsoReading(clubID, bookID uint, clubs []models.Club) int {
	count := 0
	for _, c := range clubs {
		if c.ID == clubID {
			continue
		}
		if c.CurrentBookID != nil && *c.CurrentBookID == bookID {
			count++
		}
	}
	return count
}

func (s *ClubService) AlsoReadingCount(clubID, bookID uint) (int, error) {
	clubs, err := s.clubRepo.ListByCurrentBook(bookID)
	if err != nil {
		return 0, err
	}
	return AggregateAlsoReading(clubID, bookID, clubs), nil
}

type ChapterInput struct {
	BookID        uint   `json:"book_id"`
	Title         string `json:"title"`
	ChapterNumber int    `json:"chapter_number"`
	StartPage     *int   `json:"start_page"`
	EndPage       *int   `json:"end_page"`
}

func (s *ClubService) AddChapter(clubID, userID uint, input ChapterInput) (*models.Chapter, error) {
	isAdmin, err := s.IsAdmin(clubID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperr.ErrUnauthorized
	}

	title := validation.TrimAndLimit(input.Title, validation.MaxTitleLength)
	if title == "" {
		return nil, apperr.Validation("chapter title is required")
	}
	if !validation.ValidateChapterNumber(input.ChapterNumber) {
		return nil, apperr.Validation("chapter number must be at least 1")
	}

	chapter := &models.Chapter{
		ClubID:        clubID,
		BookID:        input.BookID,
		Title:         title,
		ChapterNumber: input.ChapterNumber,
		StartPage:     input.StartPage,
		EndPage:       input.EndPage,
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *ClubService) DeleteChapter(clubID, userID, chapterID uint) error {
	isAdmin, err := s.IsAdmin(clubID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return apperr.ErrUnauthorized
	}

	chapter, err := s.chapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	// A chapter can only be deleted through its own club.
	if chapter.ClubID != clubID {
		return apperr.ErrNotFound
	}
	return s.chapterRepo.Delete(chapterID)
}

func (s *ClubService) ListChapters(clubID uint) ([]models.Chapter, error) {
	return s.chapterRepo.ListByClub(clubID)
}

func generateInviteCode() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
