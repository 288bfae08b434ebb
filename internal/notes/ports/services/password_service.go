package services

import (
	"context"
)

// PasswordService определяет интерфейс для хэширования и проверки паролей.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	Verify(ctx context.Context, password, hash string) (bool, error)
}
