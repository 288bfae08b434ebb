package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/app/dto"
	"vibenotes/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerRegister = "auth handler: register"
	LogHandlerLogin    = "auth handler: login"

	ErrorInvalidRequest = "invalid request"
)

// AuthHandler содержит HTTP обработчики для регистрации и входа.
type AuthHandler struct {
	authUseCase *app.AuthUseCase
}

// NewAuthHandler создает новый экземпляр обработчика авторизации.
func NewAuthHandler(authUseCase *app.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": ErrorInvalidRequest})
	}

	if req.Username == "" || req.Password == "" {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "username and password are required",
		})
	}

	pair, err := h.authUseCase.Register(requestCtx, req.Username, req.Password)
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusCreated).JSON(dto.TokenResponse{
		UserID:      pair.UserID,
		Username:    pair.Username,
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.ExpiresAt,
	})
}

// Login обрабатывает запрос на вход пользователя.
func (h *AuthHandler) Login(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": ErrorInvalidRequest})
	}

	if req.Username == "" || req.Password == "" {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "username and password are required",
		})
	}

	pair, err := h.authUseCase.Login(requestCtx, req.Username, req.Password)
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(dto.TokenResponse{
		UserID:      pair.UserID,
		Username:    pair.Username,
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.ExpiresAt,
	})
}
