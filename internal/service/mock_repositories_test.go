package service

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
)

type membershipKey struct {
	clubID uint
	userID uint
}

// mockClubRepository is an in-memory ClubRepositoryInterface.
type mockClubRepository struct {
	clubs       map[uint]*models.Club
	memberships map[membershipKey]*models.ClubMember
	nextID      uint
}

func newMockClubRepository() *mockClubRepository {
	return &mockClubRepository{
		clubs:       make(map[uint]*models.Club),
		memberships: make(map[membershipKey]*models.ClubMember),
		nextID:      1,
	}
}

func (m *mockClubRepository) Create(club *models.Club) error {
	club.ID = m.nextID
	m.nextID++
	m.clubs[club.ID] = club
	return nil
}

func (m *mockClubRepository) FindByID(id uint) (*models.Club, error) {
	club, ok := m.clubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *club
	copied.Members = m.membersOf(id)
	return &copied, nil
}

func (m *mockClubRepository) FindByInviteCode(code string) (*models.Club, error) {
	for _, club := range m.clubs {
		if club.InviteCode != nil && *club.InviteCode == code {
			copied := *club
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClubRepository) ListPublic(limit int) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	for _, club := range m.clubs {
		if club.IsPublic {
			clubs = append(clubs, *club)
		}
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].ID < clubs[j].ID })
	if len(clubs) > limit {
		clubs = clubs[:limit]
	}
	return clubs, nil
}

func (m *mockClubRepository) SetCurrentBook(clubID uint, bookID uint) error {
	club, ok := m.clubs[clubID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	club.CurrentBookID = &bookID
	return nil
}

func (m *mockClubRepository) ListByCurrentBook(bookID uint) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	for _, club := range m.clubs {
		if club.CurrentBookID != nil && *club.CurrentBookID == bookID {
			clubs = append(clubs, *club)
		}
	}
	return clubs, nil
}

func (m *mockClubRepository) AddMember(clubID, userID uint, role models.ClubRole) error {
	m.memberships[membershipKey{clubID, userID}] = &models.ClubMember{
		ClubID: clubID,
		UserID: userID,
		Role:   role,
	}
	return nil
}

func (m *mockClubRepository) RemoveMember(clubID, userID uint) error {
	delete(m.memberships, membershipKey{clubID, userID})
	return nil
}

func (m *mockClubRepository) GetMembers(clubID uint) ([]models.ClubMember, error) {
	return m.membersOf(clubID), nil
}

func (m *mockClubRepository) GetMembership(clubID, userID uint) (*models.ClubMember, error) {
	member, ok := m.memberships[membershipKey{clubID, userID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *member
	return &copied, nil
}

func (m *mockClubRepository) GetUserClubs(userID uint) ([]models.Club, error) {
	clubs := make([]models.Club, 0)
	for key, member := range m.memberships {
		if member.UserID != userID {
			continue
		}
		if club, ok := m.clubs[key.clubID]; ok {
			clubs = append(clubs, *club)
		}
	}
	sort.Slice(clubs, func(i, j int) bool { return clubs[i].ID < clubs[j].ID })
	return clubs, nil
}

func (m *mockClubRepository) membersOf(clubID uint) []models.ClubMember {
	members := make([]models.ClubMember, 0)
	for key, member := range m.memberships {
		if key.clubID == clubID {
			members = append(members, *member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members
}

// mockBookRepository is an in-memory BookRepositoryInterface.
type mockBookRepository struct {
	books  map[uint]*models.Book
	nextID uint
}

func newMockBookRepository() *mockBookRepository {
	return &mockBookRepository{books: make(map[uint]*models.Book), nextID: 1}
}

func (m *mockBookRepository) UpsertByCatalogKey(book *models.Book) error {
	if book.OpenLibraryKey != nil {
		for id, existing := range m.books {
			if existing.OpenLibraryKey != nil && *existing.OpenLibraryKey == *book.OpenLibraryKey {
				book.ID = id
				m.books[id] = book
				return nil
			}
		}
	}
	book.ID = m.nextID
	m.nextID++
	m.books[book.ID] = book
	return nil
}

func (m *mockBookRepository) FindByID(id uint) (*models.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *book
	return &copied, nil
}

// mockChapterRepository is an in-memory ChapterRepositoryInterface.
type mockChapterRepository struct {
	chapters map[uint]*models.Chapter
	nextID   uint
}

func newMockChapterRepository() *mockChapterRepository {
	return &mockChapterRepository{chapters: make(map[uint]*models.Chapter), nextID: 1}
}

func (m *mockChapterRepository) Create(chapter *models.Chapter) error {
	chapter.ID = m.nextID
	m.nextID++
	m.chapters[chapter.ID] = chapter
	return nil
}

func (m *mockChapterRepository) FindByID(id uint) (*models.Chapter, error) {
	chapter, ok := m.chapters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *chapter
	return &copied, nil
}

func (m *mockChapterRepository) ListByClub(clubID uint) ([]models.Chapter, error) {
	chapters := make([]models.Chapter, 0)
	for _, chapter := range m.chapters {
		if chapter.ClubID == clubID {
			chapters = append(chapters, *chapter)
		}
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].ChapterNumber < chapters[j].ChapterNumber })
	return chapters, nil
}

func (m *mockChapterRepository) Delete(id uint) error {
	delete(m.chapters, id)
	return nil
}

// mockProgressRepository is an in-memory ProgressRepositoryInterface.
type mockProgressRepository struct {
	rows map[membershipKey]map[uint]*models.ReadingProgress // (club,user) -> book -> row
}

func newMockProgressRepository() *mockProgressRepository {
	return &mockProgressRepository{rows: make(map[membershipKey]map[uint]*models.ReadingProgress)}
}

func (m *mockProgressRepository) Upsert(progress *models.ReadingProgress) error {
	key := membershipKey{progress.ClubID, progress.UserID}
	if m.rows[key] == nil {
		m.rows[key] = make(map[uint]*models.ReadingProgress)
	}
	copied := *progress
	m.rows[key][progress.BookID] = &copied
	return nil
}

func (m *mockProgressRepository) Get(userID, bookID, clubID uint) (*models.ReadingProgress, error) {
	if byBook, ok := m.rows[membershipKey{clubID, userID}]; ok {
		if row, ok := byBook[bookID]; ok {
			copied := *row
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepository) ListByClub(clubID uint) ([]models.ReadingProgress, error) {
	rows := make([]models.ReadingProgress, 0)
	for key, byBook := range m.rows {
		if key.clubID != clubID {
			continue
		}
		for _, row := range byBook {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows, nil
}

// mockDiscussionRepository is an in-memory DiscussionRepositoryInterface.
type mockDiscussionRepository struct {
	discussions map[uint]*models.Discussion
	comments    map[uint][]models.Comment
	nextID      uint
}

func newMockDiscussionRepository() *mockDiscussionRepository {
	return &mockDiscussionRepository{
		discussions: make(map[uint]*models.Discussion),
		comments:    make(map[uint][]models.Comment),
		nextID:      1,
	}
}

func (m *mockDiscussionRepository) Create(discussion *models.Discussion) error {
	discussion.ID = m.nextID
	m.nextID++
	m.discussions[discussion.ID] = discussion
	return nil
}

func (m *mockDiscussionRepository) FindByID(id uint) (*models.Discussion, error) {
	discussion, ok := m.discussions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *discussion
	copied.Comments = append([]models.Comment(nil), m.comments[id]...)
	return &copied, nil
}

func (m *mockDiscussionRepository) ListByClub(clubID uint) ([]models.Discussion, error) {
	discussions := make([]models.Discussion, 0)
	for _, discussion := range m.discussions {
		if discussion.ClubID == clubID {
			discussions = append(discussions, *discussion)
		}
	}
	sort.Slice(discussions, func(i, j int) bool { return discussions[i].ID < discussions[j].ID })
	return discussions, nil
}

func (m *mockDiscussionRepository) AddComment(comment *models.Comment) error {
	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.DiscussionID] = append(m.comments[comment.DiscussionID], *comment)
	return nil
}

// mockUserRepository is an in-memory UserRepositoryInterface.
type mockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *mockUserRepository) Create(user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) FindByID(id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) Update(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// mockRefreshTokenRepository is an in-memory RefreshTokenRepositoryInterface.
type mockRefreshTokenRepository struct {
	tokens map[string]*models.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*models.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.IsRevoked() || time.Now().After(token.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (m *mockRefreshTokenRepository) RevokeByHash(tokenHash string) error {
	if token, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(userID uint) error {
	now := time.Now()
	for _, token := range m.tokens {
		if token.UserID == userID && !token.IsRevoked() {
			token.RevokedAt = &now
		}
	}
	return nil
}

// mockPasswordResetRepository is an in-memory PasswordResetRepositoryInterface.
type mockPasswordResetRepository struct {
	tokens map[string]*models.PasswordResetToken
}

func newMockPasswordResetRepository() *mockPasswordResetRepository {
	return &mockPasswordResetRepository{tokens: make(map[string]*models.PasswordResetToken)}
}

func (m *mockPasswordResetRepository) Create(token *models.PasswordResetToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockPasswordResetRepository) FindValidByHash(tokenHash string) (*models.PasswordResetToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.IsUsed() || time.Now().After(token.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *token
	return &copied, nil
}

func (m *mockPasswordResetRepository) MarkUsedByHash(tokenHash string) error {
	if token, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		token.UsedAt = &now
	}
	return nil
}
