package repositories

import (
	"context"

	"vibenotes/internal/notes/domain/entities"
)

// UserRepository определяет интерфейс для операций над данными пользователя.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	UpdateProfile(ctx context.Context, id, username, description string) (*entities.User, error)

	// UpdateAvatar записывает новый путь аватара и возвращает прежний,
	// чтобы вызывающий мог удалить старый блоб.
	UpdateAvatar(ctx context.Context, id, avatarPath string) (string, error)
}
