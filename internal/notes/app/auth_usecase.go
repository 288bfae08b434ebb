package app

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	domainsvc "vibenotes/internal/notes/domain/services"
	"vibenotes/internal/notes/ports/repositories"
	"vibenotes/internal/notes/ports/services"
	"vibenotes/pkg/logger"
)

// Границы длины имени пользователя.
const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

// AuthUseCase реализует регистрацию и вход пользователей. Ядро сервиса
// заметок видит только идентификатор пользователя из проверенного токена.
type AuthUseCase struct {
	userRepo        repositories.UserRepository
	passwordService services.PasswordService
	tokenService    services.TokenService
}

// NewAuthUseCase создает новый экземпляр AuthUseCase.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordService services.PasswordService,
	tokenService services.TokenService,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Register создает нового пользователя и выдает токен доступа.
func (uc *AuthUseCase) Register(ctx context.Context, username, password string) (*domainsvc.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"), zap.String("method", "Register"))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := uc.passwordService.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, "failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := uc.userRepo.Create(ctx, &entities.User{Username: username, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return uc.issueToken(ctx, user)
}

// Login проверяет учетные данные и выдает токен доступа. Неизвестное имя
// и неверный пароль дают одну и ту же ошибку.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*domainsvc.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "auth"), zap.String("method", "Login"))

	user, err := uc.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, entities.ErrInvalidCredentials
		}
		log.Error(ctx, "failed to find user", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := uc.passwordService.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, "failed to verify password", zap.Error(err))
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, entities.ErrInvalidCredentials
	}

	return uc.issueToken(ctx, user)
}

func (uc *AuthUseCase) issueToken(ctx context.Context, user *entities.User) (*domainsvc.TokenPair, error) {
	token, expiresAt, err := uc.tokenService.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domainsvc.TokenPair{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// validateUsername проверяет длину имени пользователя.
func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return entities.ErrUsernameLength
	}
	return nil
}

// validatePassword требует минимум 8 символов, букву и цифру.
func validatePassword(password string) error {
	if len(password) < domainsvc.MinPasswordLength {
		return entities.ErrPasswordTooWeak
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return entities.ErrPasswordTooWeak
	}
	return nil
}
