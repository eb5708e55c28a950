package validation

import (
	"net/mail"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxClubNameLength    = 100
	MaxDescriptionLength = 500
	MaxDisplayNameLength = 50
	MaxBioLength         = 500
	MaxTitleLength       = 200
	MaxContentLength     = 5000
	MaxCommentLength     = 2000
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func ValidateDisplayName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= MaxDisplayNameLength
}

func ValidateClubName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= MaxClubNameLength
}

func ValidateChapterNumber(n int) bool {
	return n >= 1
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 6
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 6 {
		return 6
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxChatMessageLength() int {
	maxStr := os.Getenv("MAX_CHAT_MESSAGE_LENGTH")
	if maxStr == "" {
		return 2000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 2000
	}
	return max
}

// TrimAndLimit clips to at most max bytes without splitting a rune.
func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
