package service

import (
	"errors"
	"testing"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func TestComputePercentComplete(t *testing.T) {
	tests := []struct {
		name        string
		currentPage *int
		totalPages  *int
		want        int
	}{
		{"nil page", nil, intPtr(300), 0},
		{"nil total", intPtr(50), nil, 0},
		{"both nil", nil, nil, 0},
		{"zero page", intPtr(0), intPtr(300), 0},
		{"zero total", intPtr(50), intPtr(0), 0},
		{"negative page", intPtr(-5), intPtr(300), 0},
		{"halfway", intPtr(150), intPtr(300), 50},
		{"rounds to nearest", intPtr(100), intPtr(300), 33},
		{"rounds half away from zero", intPtr(1), intPtr(200), 1},
		{"finished", intPtr(300), intPtr(300), 100},
		{"past the end clamps", intPtr(450), intPtr(300), 100},
		{"one page book", intPtr(1), intPtr(1), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePercentComplete(tt.currentPage, tt.totalPages)
			if got != tt.want {
				t.Errorf("ComputePercentComplete = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Percent %d out of [0, 100]", got)
			}
		})
	}
}

func TestComputePercentCompleteMonotone(t *testing.T) {
	total := intPtr(320)
	prev := 0
	for page := 0; page <= 400; page += 10 {
		got := ComputePercentComplete(intPtr(page), total)
		if got < prev {
			t.Fatalf("Percent dropped from %d to %d at page %d", prev, got, page)
		}
		prev = got
	}
}

func TestRankProgressStable(t *testing.T) {
	rows := []models.ReadingProgress{
		{UserID: 1, PercentComplete: 50},
		{UserID: 2, PercentComplete: 80},
		{UserID: 3, PercentComplete: 50},
	}

	ranked := RankProgress(rows)

	wantOrder := []uint{2, 1, 3}
	for i, want := range wantOrder {
		if ranked[i].UserID != want {
			t.Errorf("Position %d: got user %d, want %d", i, ranked[i].UserID, want)
		}
	}

	// Input order untouched.
	if rows[0].UserID != 1 || rows[1].UserID != 2 {
		t.Error("Expected RankProgress to leave its input alone")
	}

	// Reranking the ranked slice changes nothing.
	again := RankProgress(ranked)
	for i := range again {
		if again[i].UserID != ranked[i].UserID {
			t.Error("Expected ranking to be idempotent")
		}
	}
}

func TestUpdateProgress(t *testing.T) {
	clubRepo := newMockClubRepository()
	bookRepo := newMockBookRepository()
	progressRepo := newMockProgressRepository()
	svc := NewProgressService(progressRepo, bookRepo, clubRepo)

	club := &models.Club{Name: "Book Club", IsPublic: true}
	_ = clubRepo.Create(club)
	_ = clubRepo.AddMember(club.ID, 1, models.RoleMember)

	book := &models.Book{Title: "Dune", AuthorName: "Frank Herbert", PageCount: intPtr(300)}
	_ = bookRepo.UpsertByCatalogKey(book)

	progress, err := svc.UpdateProgress(1, UpdateProgressInput{
		ClubID:         club.ID,
		BookID:         book.ID,
		CurrentChapter: 5,
		CurrentPage:    intPtr(150),
	})
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if progress.PercentComplete != 50 {
		t.Errorf("Expected 50%% at page 150 of 300, got %d", progress.PercentComplete)
	}

	// Second write replaces, never duplicates.
	progress, err = svc.UpdateProgress(1, UpdateProgressInput{
		ClubID:         club.ID,
		BookID:         book.ID,
		CurrentChapter: 12,
		CurrentPage:    intPtr(300),
	})
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if progress.PercentComplete != 100 {
		t.Errorf("Expected 100%% at the last page, got %d", progress.PercentComplete)
	}

	rows, _ := svc.ListClubProgress(club.ID)
	if len(rows) != 1 {
		t.Fatalf("Expected a single row after two updates, got %d", len(rows))
	}
	if rows[0].CurrentChapter != 12 {
		t.Errorf("Expected latest chapter to win, got %d", rows[0].CurrentChapter)
	}
}

func TestUpdateProgressRequiresMembership(t *testing.T) {
	clubRepo := newMockClubRepository()
	bookRepo := newMockBookRepository()
	svc := NewProgressService(newMockProgressRepository(), bookRepo, clubRepo)

	club := &models.Club{Name: "Book Club"}
	_ = clubRepo.Create(club)
	book := &models.Book{Title: "Dune", AuthorName: "Frank Herbert"}
	_ = bookRepo.UpsertByCatalogKey(book)

	input := UpdateProgressInput{ClubID: club.ID, BookID: book.ID, CurrentPage: intPtr(10)}

	if _, err := svc.UpdateProgress(2, input); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for non-member, got %v", err)
	}
	if _, err := svc.UpdateProgress(0, input); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for anonymous, got %v", err)
	}
}

func TestUpdateProgressValidation(t *testing.T) {
	clubRepo := newMockClubRepository()
	bookRepo := newMockBookRepository()
	svc := NewProgressService(newMockProgressRepository(), bookRepo, clubRepo)

	club := &models.Club{Name: "Book Club"}
	_ = clubRepo.Create(club)
	_ = clubRepo.AddMember(club.ID, 1, models.RoleMember)
	book := &models.Book{Title: "Dune", AuthorName: "Frank Herbert"}
	_ = bookRepo.UpsertByCatalogKey(book)

	if _, err := svc.UpdateProgress(1, UpdateProgressInput{ClubID: club.ID, BookID: book.ID, CurrentChapter: -1}); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for negative chapter, got %v", err)
	}
	if _, err := svc.UpdateProgress(1, UpdateProgressInput{ClubID: club.ID, BookID: book.ID, CurrentPage: intPtr(-3)}); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for negative page, got %v", err)
	}
	if _, err := svc.UpdateProgress(1, UpdateProgressInput{ClubID: club.ID, BookID: 999}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing book, got %v", err)
	}
}

func TestGetProgressDefaultsToZero(t *testing.T) {
	svc := NewProgressService(newMockProgressRepository(), newMockBookRepository(), newMockClubRepository())

	progress, err := svc.GetProgress(1, 2, 3)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}
	if progress.PercentComplete != 0 || progress.CurrentChapter != 0 {
		t.Errorf("Expected zero-value progress, got %+v", progress)
	}
	if progress.UserID != 1 || progress.BookID != 2 || progress.ClubID != 3 {
		t.Errorf("Expected identifiers to carry through, got %+v", progress)
	}
}

func TestListClubProgressRanked(t *testing.T) {
	clubRepo := newMockClubRepository()
	bookRepo := newMockBookRepository()
	progressRepo := newMockProgressRepository()
	svc := NewProgressService(progressRepo, bookRepo, clubRepo)

	club := &models.Club{Name: "Book Club"}
	_ = clubRepo.Create(club)
	book := &models.Book{Title: "Dune", AuthorName: "Frank Herbert", PageCount: intPtr(300)}
	_ = bookRepo.UpsertByCatalogKey(book)

	pages := map[uint]int{1: 60, 2: 300, 3: 150}
	for userID, page := range pages {
		_ = clubRepo.AddMember(club.ID, userID, models.RoleMember)
		if _, err := svc.UpdateProgress(userID, UpdateProgressInput{
			ClubID:      club.ID,
			BookID:      book.ID,
			CurrentPage: intPtr(page),
		}); err != nil {
			t.Fatalf("UpdateProgress failed for user %d: %v", userID, err)
		}
	}

	rows, err := svc.ListClubProgress(club.ID)
	if err != nil {
		t.Fatalf("ListClubProgress failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].UserID != 2 || rows[0].PercentComplete != 100 {
		t.Errorf("Expected the finished reader first, got %+v", rows[0])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PercentComplete > rows[i-1].PercentComplete {
			t.Errorf("Rows out of order at %d: %d%% after %d%%", i, rows[i].PercentComplete, rows[i-1].PercentComplete)
		}
	}
}
