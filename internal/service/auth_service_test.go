package service

import (
	"testing"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/testutil"
)

// resetCapture records what the reset sender was asked to deliver.
type resetCapture struct {
	emails []string
	tokens []string
}

func newAuthServiceForTest(t *testing.T) (*AuthService, *mockUserRepository, *resetCapture) {
	t.Helper()
	helper := testutil.NewTestHelper(t)
	helper.SetupTestEnv()
	t.Cleanup(helper.TeardownTestEnv)

	userRepo := newMockUserRepository()
	tokenRepo := newMockRefreshTokenRepository()
	resetRepo := newMockPasswordResetRepository()
	capture := &resetCapture{}
	sender := func(email, token string) error {
		capture.emails = append(capture.emails, email)
		capture.tokens = append(capture.tokens, token)
		return nil
	}
	return NewAuthService(userRepo, tokenRepo, resetRepo, sender), userRepo, capture
}

func TestRegister(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	resp, err := svc.Register(RegisterInput{
		DisplayName: "Alice",
		Email:       "Alice@Example.com",
		Password:    "secret-password",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if resp.Token == "" || resp.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("Expected email to be normalized, got %q", resp.User.Email)
	}
	if resp.User.DisplayName != "Alice" {
		t.Errorf("Expected display name to round-trip, got %q", resp.User.DisplayName)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{DisplayName: "A", Email: "not-an-email", Password: "secret-password"}},
		{"empty display name", RegisterInput{DisplayName: "", Email: "a@b.com", Password: "secret-password"}},
		{"short password", RegisterInput{DisplayName: "A", Email: "a@b.com", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.input); !apperr.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	input := RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"}
	if _, err := svc.Register(input); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if _, err := svc.Register(input); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for duplicate email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	_, _ = svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})

	resp, err := svc.Login(LoginInput{Email: "A@B.com", Password: "secret-password"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("Expected access token on login")
	}

	if _, err := svc.Login(LoginInput{Email: "a@b.com", Password: "wrong"}); err == nil {
		t.Error("Expected error for wrong password")
	}
	if _, err := svc.Login(LoginInput{Email: "nobody@b.com", Password: "secret-password"}); err == nil {
		t.Error("Expected error for unknown email")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	first, _ := svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})

	second, err := svc.Refresh(first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("Expected a new refresh token on rotation")
	}

	// The presented token is revoked; replaying it fails.
	if _, err := svc.Refresh(first.RefreshToken); err == nil {
		t.Error("Expected replayed refresh token to be rejected")
	}

	// The fresh token still works.
	if _, err := svc.Refresh(second.RefreshToken); err != nil {
		t.Errorf("Expected rotated token to be valid, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	resp, _ := svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})

	if err := svc.Logout(resp.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := svc.Refresh(resp.RefreshToken); err == nil {
		t.Error("Expected refresh after logout to fail")
	}

	// Logging out without a token is a no-op.
	if err := svc.Logout(""); err != nil {
		t.Errorf("Expected empty logout to be a no-op, got %v", err)
	}
}

func TestRequestPasswordReset(t *testing.T) {
	svc, _, capture := newAuthServiceForTest(t)
	_, _ = svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})

	if err := svc.RequestPasswordReset("A@B.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if len(capture.tokens) != 1 || capture.tokens[0] == "" {
		t.Fatalf("Expected one reset token to be sent, got %d", len(capture.tokens))
	}
	if capture.emails[0] != "a@b.com" {
		t.Errorf("Expected token sent to the normalized address, got %q", capture.emails[0])
	}

	// Unknown addresses succeed without sending anything.
	if err := svc.RequestPasswordReset("nobody@b.com"); err != nil {
		t.Errorf("Expected unknown email to succeed silently, got %v", err)
	}
	if len(capture.tokens) != 1 {
		t.Errorf("Expected no token for an unknown email, got %d sends", len(capture.tokens))
	}

	if err := svc.RequestPasswordReset("not-an-email"); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for malformed email, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc, _, capture := newAuthServiceForTest(t)
	registered, _ := svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})

	if err := svc.RequestPasswordReset("a@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	token := capture.tokens[0]

	if err := svc.ResetPassword(token, "rotated-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Login(LoginInput{Email: "a@b.com", Password: "secret-password"}); err == nil {
		t.Error("Expected the old password to stop working")
	}
	if _, err := svc.Login(LoginInput{Email: "a@b.com", Password: "rotated-password"}); err != nil {
		t.Errorf("Expected the new password to work, got %v", err)
	}

	// The token is single-use.
	if err := svc.ResetPassword(token, "another-password"); err == nil {
		t.Error("Expected a consumed reset token to be rejected")
	}

	// Sessions issued before the reset are dead.
	if _, err := svc.Refresh(registered.RefreshToken); err == nil {
		t.Error("Expected pre-reset refresh tokens to be revoked")
	}
}

func TestResetPasswordValidation(t *testing.T) {
	svc, _, capture := newAuthServiceForTest(t)
	_, _ = svc.Register(RegisterInput{DisplayName: "Alice", Email: "a@b.com", Password: "secret-password"})
	_ = svc.RequestPasswordReset("a@b.com")

	if err := svc.ResetPassword(capture.tokens[0], "abc"); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for a short password, got %v", err)
	}
	if err := svc.ResetPassword("bogus-token", "rotated-password"); err == nil {
		t.Error("Expected an unknown reset token to be rejected")
	}
}
