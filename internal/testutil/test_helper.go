package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, displayName, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if displayName == "" {
		displayName = "Test Reader"
	}
	if email == "" {
		email = "test@example.com"
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed_password_123",
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestClub creates a test club with default values
func (h *TestHelper) CreateTestClub(id, creatorID uint, name string) *models.Club {
	if id == 0 {
		id = 1
	}
	if creatorID == 0 {
		creatorID = 1
	}
	if name == "" {
		name = "Test Club"
	}

	code := "invite-code-123"
	return &models.Club{
		ID:          id,
		Name:        name,
		Description: "A club for tests",
		IsPublic:    true,
		InviteCode:  &code,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CreateTestBook creates a test book with default values
func (h *TestHelper) CreateTestBook(id uint, title string, pageCount int) *models.Book {
	if id == 0 {
		id = 1
	}
	if title == "" {
		title = "Test Book"
	}

	key := "/works/OL123W"
	book := &models.Book{
		ID:             id,
		OpenLibraryKey: &key,
		Title:          title,
		AuthorName:     "Test Author",
		CreatedAt:      time.Now(),
	}
	if pageCount > 0 {
		book.PageCount = &pageCount
	}
	return book
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
	os.Setenv("PASSWORD_MIN_LENGTH", "10")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}
