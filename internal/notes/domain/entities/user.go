// Package entities defines the domain entities for the notes service.
package entities

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameLength  = fmt.Errorf("%w: username must be between 3 and 50 characters", ErrInvalidUserData)
	ErrPasswordTooWeak = fmt.Errorf("%w: password must be at least 8 characters and contain a letter and a digit", ErrInvalidUserData)
)

// User представляет основную сущность домена пользователя.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Description  string
	AvatarPath   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
