package validation

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@test.org  ", "bob@test.org"},
		{"plain@ok.io", "plain@ok.io"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a@b.co", true},
		{"", false},
		{"   ", false},
		{"not-an-email", false},
		{"missing@domain@twice.com", false},
	}

	for _, tt := range tests {
		if got := ValidateEmail(tt.email); got != tt.want {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidateDisplayName(t *testing.T) {
	if !ValidateDisplayName("Alice") {
		t.Error("Expected plain name to validate")
	}
	if ValidateDisplayName("") || ValidateDisplayName("   ") {
		t.Error("Expected blank names to fail")
	}
	if ValidateDisplayName(strings.Repeat("a", MaxDisplayNameLength+1)) {
		t.Error("Expected overlong name to fail")
	}
	if !ValidateDisplayName(strings.Repeat("a", MaxDisplayNameLength)) {
		t.Error("Expected name at the limit to pass")
	}
}

func TestValidateClubName(t *testing.T) {
	if !ValidateClubName("Mystery Mondays") {
		t.Error("Expected plain club name to validate")
	}
	if ValidateClubName(strings.Repeat("x", MaxClubNameLength+1)) {
		t.Error("Expected overlong club name to fail")
	}
}

func TestValidateChapterNumber(t *testing.T) {
	if ValidateChapterNumber(0) || ValidateChapterNumber(-1) {
		t.Error("Expected chapter numbers below 1 to fail")
	}
	if !ValidateChapterNumber(1) || !ValidateChapterNumber(42) {
		t.Error("Expected positive chapter numbers to pass")
	}
}

func TestPasswordMinLength(t *testing.T) {
	os.Unsetenv("PASSWORD_MIN_LENGTH")
	if got := PasswordMinLength(); got != 6 {
		t.Errorf("Expected default of 6, got %d", got)
	}

	os.Setenv("PASSWORD_MIN_LENGTH", "10")
	defer os.Unsetenv("PASSWORD_MIN_LENGTH")
	if got := PasswordMinLength(); got != 10 {
		t.Errorf("Expected 10 from env, got %d", got)
	}

	// Values below the floor fall back.
	os.Setenv("PASSWORD_MIN_LENGTH", "2")
	if got := PasswordMinLength(); got != 6 {
		t.Errorf("Expected floor of 6, got %d", got)
	}
}

func TestValidatePassword(t *testing.T) {
	os.Unsetenv("PASSWORD_MIN_LENGTH")
	if ValidatePassword("abc") {
		t.Error("Expected short password to fail")
	}
	if !ValidatePassword("secret-password") {
		t.Error("Expected long password to pass")
	}
}

func TestMaxChatMessageLength(t *testing.T) {
	os.Unsetenv("MAX_CHAT_MESSAGE_LENGTH")
	if got := MaxChatMessageLength(); got != 2000 {
		t.Errorf("Expected default of 2000, got %d", got)
	}

	os.Setenv("MAX_CHAT_MESSAGE_LENGTH", "500")
	defer os.Unsetenv("MAX_CHAT_MESSAGE_LENGTH")
	if got := MaxChatMessageLength(); got != 500 {
		t.Errorf("Expected 500 from env, got %d", got)
	}
}

func TestTrimAndLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"trims whitespace", "  hello  ", 100, "hello"},
		{"clips at max", "abcdef", 3, "abc"},
		{"under max untouched", "abc", 10, "abc"},
		{"zero max disables clipping", "abcdef", 0, "abcdef"},
		{"clip lands on rune boundary", "héllo", 2, "h"},
		{"multibyte under max untouched", "héllo", 10, "héllo"},
		{"clip mid emoji drops it", "ab📚", 4, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndLimit(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("TrimAndLimit(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TrimAndLimit(%q, %d) produced invalid UTF-8 %q", tt.input, tt.max, got)
			}
		})
	}
}
