package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	domainsvc "vibenotes/internal/notes/domain/services"
	"vibenotes/internal/notes/ports/cache"
	"vibenotes/internal/notes/ports/repositories"
	"vibenotes/internal/notes/ports/storage"
	"vibenotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogProfileCacheFailed  = "profile cache operation failed"
	LogOldAvatarNotRemoved = "failed to remove previous avatar blob"
)

const profileKeyPrefix = "profile:"

// Profile представляет публичную часть данных пользователя.
type Profile struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	HasAvatar   bool      `json:"has_avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserUseCase реализует операции над профилем и аватаром пользователя.
// Смена аватара следует той же дисциплине компенсации, что и заметки:
// записать новый блоб -> обновить строку -> удалить старый блоб.
type UserUseCase struct {
	userRepo     repositories.UserRepository
	avatars      storage.BlobStore
	avatarPolicy *domainsvc.UploadPolicy
	cache        cache.Cache
	profileTTL   time.Duration
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	avatars storage.BlobStore,
	avatarPolicy *domainsvc.UploadPolicy,
	userCache cache.Cache,
	profileTTL time.Duration,
) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		avatars:      avatars,
		avatarPolicy: avatarPolicy,
		cache:        userCache,
		profileTTL:   profileTTL,
	}
}

// GetProfile возвращает профиль пользователя, используя кэш с TTL.
// Отказ кэша не ломает запрос.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	log := logger.Log(ctx)
	key := profileKeyPrefix + userID

	if cached, err := uc.cache.Get(ctx, key); err != nil {
		log.Warn(ctx, LogProfileCacheFailed, zap.Error(err))
	} else if cached != "" {
		var profile Profile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
		log.Warn(ctx, LogProfileCacheFailed, zap.String("key", key))
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := profileFromUser(user)
	if encoded, err := json.Marshal(profile); err == nil {
		if err := uc.cache.Set(ctx, key, string(encoded), uc.profileTTL); err != nil {
			log.Warn(ctx, LogProfileCacheFailed, zap.Error(err))
		}
	}

	return profile, nil
}

// UpdateProfile обновляет имя и описание пользователя.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, username, description string) (*Profile, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.UpdateProfile(ctx, userID, username, description)
	if err != nil {
		return nil, err
	}

	uc.invalidateProfile(ctx, userID)
	return profileFromUser(user), nil
}

// UpdateAvatar заменяет аватар пользователя. Ошибка обновления строки
// удаляет только что записанный блоб; старый блоб убирается после успеха
// и его отказ не меняет результат.
func (uc *UserUseCase) UpdateAvatar(ctx context.Context, userID string, file entities.FileUpload) error {
	log := logger.Log(ctx)

	if err := uc.avatarPolicy.ValidateFile(file); err != nil {
		return err
	}

	data, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %q: %w", file.OriginalName, err)
	}
	defer func() { _ = data.Close() }()

	blob, err := uc.avatars.Put(ctx, file.OriginalName, file.ContentType, data)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	previous, err := uc.userRepo.UpdateAvatar(ctx, userID, blob.StoredPath)
	if err != nil {
		if delErr := uc.avatars.Delete(ctx, blob.StoredPath); delErr != nil {
			log.Warn(ctx, LogBlobCleanupFailed, zap.String("stored_path", blob.StoredPath), zap.Error(delErr))
		}
		return err
	}

	if previous != "" {
		if err := uc.avatars.Delete(ctx, previous); err != nil {
			log.Warn(ctx, LogOldAvatarNotRemoved, zap.String("stored_path", previous), zap.Error(err))
		}
	}

	uc.invalidateProfile(ctx, userID)
	return nil
}

// GetAvatar открывает блоб аватара пользователя для чтения и возвращает
// тип содержимого, восстановленный по расширению сохраненного имени.
func (uc *UserUseCase) GetAvatar(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.AvatarPath == "" {
		return nil, "", entities.ErrBlobNotFound
	}

	reader, err := uc.avatars.Open(ctx, user.AvatarPath)
	if err != nil {
		return nil, "", err
	}

	return reader, mime.TypeByExtension(filepath.Ext(user.AvatarPath)), nil
}

func (uc *UserUseCase) invalidateProfile(ctx context.Context, userID string) {
	if err := uc.cache.Delete(ctx, profileKeyPrefix+userID); err != nil {
		logger.Log(ctx).Warn(ctx, LogProfileCacheFailed, zap.Error(err))
	}
}

func profileFromUser(user *entities.User) *Profile {
	return &Profile{
		UserID:      user.ID,
		Username:    user.Username,
		Description: user.Description,
		HasAvatar:   user.AvatarPath != "",
		CreatedAt:   user.CreatedAt,
	}
}
