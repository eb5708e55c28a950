package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/andrewjordancampbell/TurnTogether/internal/models"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
	"github.com/andrewjordancampbell/TurnTogether/internal/storage"
)

var (
	ErrStorageNotConfigured = errors.New("storage not configured")
	ErrUnsupportedAvatar    = errors.New("unsupported avatar content type")
	ErrAvatarTooLarge       = errors.New("avatar too large")
	ErrNoAvatar             = errors.New("no avatar set")
)

const MaxAvatarBytes = 5 << 20

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AvatarService stores profile images in object storage. A nil storage
// backend disables uploads without failing the rest of the app.
type AvatarService struct {
	storage  *storage.S3Storage
	userRepo repository.UserRepositoryInterface
}

func NewAvatarService(st *storage.S3Storage, userRepo repository.UserRepositoryInterface) *AvatarService {
	return &AvatarService{storage: st, userRepo: userRepo}
}

func (s *AvatarService) UploadAvatar(ctx context.Context, userID uint, r io.Reader, size int64, contentType, publicBaseURL string) (*models.User, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedAvatar
	}
	if size <= 0 || size > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	// A fresh key per upload so stale CDN copies never resurface.
	key, err := storage.SafeJoinObjectPath("avatars", fmt.Sprintf("%d/%s%s", userID, uuid.NewString(), ext))
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.PutObject(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}

	oldKey := user.AvatarKey
	user.AvatarKey = key
	user.AvatarURL = fmt.Sprintf("%s/users/%d/avatar", publicBaseURL, userID)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if oldKey != "" {
		_ = s.storage.DeleteObject(ctx, oldKey)
	}
	return user, nil
}

func (s *AvatarService) DeleteAvatar(ctx context.Context, userID uint) (*models.User, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user.AvatarKey != "" {
		_ = s.storage.DeleteObject(ctx, user.AvatarKey)
	}
	user.AvatarKey = ""
	user.AvatarURL = ""
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// OpenAvatar streams the stored image for a user.
func (s *AvatarService) OpenAvatar(ctx context.Context, userID uint) (*minio.Object, storage.ObjectStat, error) {
	if s.storage == nil {
		return nil, storage.ObjectStat{}, ErrStorageNotConfigured
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, storage.ObjectStat{}, err
	}
	if user.AvatarKey == "" {
		return nil, storage.ObjectStat{}, ErrNoAvatar
	}
	return s.storage.GetObject(ctx, user.AvatarKey)
}
