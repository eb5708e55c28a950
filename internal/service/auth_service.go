package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrewjordancampbell/TurnTogether/internal/apperr"
	"github.com/andrewjordancampbell/TurnTogether/internal/models"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
	"github.com/andrewjordancampbell/TurnTogether/internal/validation"
)

const (
	accessTokenTTL  = 7 * 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// ResetSender delivers a password reset token to the user, typically as
// an emailed link. nil falls back to logging for operator delivery.
type ResetSender func(email, token string) error

type AuthService struct {
	userRepo         repository.UserRepositoryInterface
	refreshTokenRepo repository.RefreshTokenRepositoryInterface
	resetTokenRepo   repository.PasswordResetRepositoryInterface
	resetSender      ResetSender
}

func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	refreshTokenRepo repository.RefreshTokenRepositoryInterface,
	resetTokenRepo repository.PasswordResetRepositoryInterface,
	resetSender ResetSender,
) *AuthService {
	if resetSender == nil {
		resetSender = func(email, token string) error {
			log.Printf("Password reset token for %s: %s", email, token)
			return nil
		}
	}
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		resetTokenRepo:   resetTokenRepo,
		resetSender:      resetSender,
	}
}

type RegisterInput struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refresh_token"`
	User         models.UserResponse `json:"user"`
}

func (s *AuthService) Register(input RegisterInput) (*AuthResponse, error) {
	email := validation.NormalizeEmail(input.Email)
	if !validation.ValidateEmail(email) {
		return nil, apperr.Validation("please enter a valid email")
	}
	if !validation.ValidateDisplayName(input.DisplayName) {
		return nil, apperr.Validation("display name is required and must be at most %d characters", validation.MaxDisplayNameLength)
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, apperr.Validation("password must be at least %d characters", validation.PasswordMinLength())
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperr.Validation("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  validation.TrimAndLimit(input.DisplayName, validation.MaxDisplayNameLength),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(input.Email))
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return s.issueTokens(user)
}

// Refresh rotates the refresh token: the presented token is revoked and
// a fresh pair is issued.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	hash := hashToken(refreshToken)
	stored, err := s.refreshTokenRepo.FindValidByHash(hash)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if err := s.refreshTokenRepo.RevokeByHash(hash); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.RevokeByHash(hashToken(refreshToken))
}

// RequestPasswordReset issues a single-use reset token and hands it to
// the sender. Unknown addresses succeed silently so the endpoint never
// reveals whether an email is registered.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = validation.NormalizeEmail(email)
	if !validation.ValidateEmail(email) {
		return apperr.Validation("please enter a valid email")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return err
	}
	record := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetTokenRepo.Create(record); err != nil {
		return err
	}

	return s.resetSender(user.Email, token)
}

// ResetPassword consumes a reset token and replaces the password. Every
// outstanding session dies with the old password.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if !validation.ValidatePassword(newPassword) {
		return apperr.Validation("password must be at least %d characters", validation.PasswordMinLength())
	}

	hash := hashToken(token)
	stored, err := s.resetTokenRepo.FindValidByHash(hash)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}
	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	if err := s.resetTokenRepo.MarkUsedByHash(hash); err != nil {
		return err
	}
	return s.refreshTokenRepo.RevokeAllForUser(user.ID)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateOpaqueToken()
	if err != nil {
		return nil, err
	}
	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(record); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         user.ToResponse(),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":      user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"exp":          time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
