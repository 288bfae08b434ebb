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
	LogHandlerGetProfile    = "user handler: get profile"
	LogHandlerUpdateProfile = "user handler: update profile"
	LogHandlerUpdateAvatar  = "user handler: update avatar"
	LogHandlerGetAvatar     = "user handler: get avatar"
)

const fieldAvatar = "avatar"

// UserHandler содержит HTTP обработчики для профиля и аватара.
type UserHandler struct {
	userUseCase *app.UserUseCase
}

// NewUserHandler создает новый экземпляр обработчика пользователей.
func NewUserHandler(userUseCase *app.UserUseCase) *UserHandler {
	return &UserHandler{userUseCase: userUseCase}
}

// GetProfile обрабатывает запрос профиля текущего пользователя.
func (h *UserHandler) GetProfile(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerGetProfile)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	profile, err := h.userUseCase.GetProfile(requestCtx, userID)
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(profile)
}

// UpdateProfile обрабатывает обновление имени и описания пользователя.
func (h *UserHandler) UpdateProfile(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateProfile)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	var req dto.ProfileUpdateRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": ErrorInvalidRequest})
	}

	profile, err := h.userUseCase.UpdateProfile(requestCtx, userID, req.Username, req.Description)
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(profile)
}

// UpdateAvatar обрабатывает загрузку нового аватара.
func (h *UserHandler) UpdateAvatar(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerUpdateAvatar)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	fh, err := ctx.FormFile(fieldAvatar)
	if err != nil {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}

	if err := h.userUseCase.UpdateAvatar(requestCtx, userID, fileUpload(fh)); err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{"message": "avatar updated"})
}

// GetAvatar отдает файл аватара указанного пользователя.
func (h *UserHandler) GetAvatar(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerGetAvatar)

	if _, ok := currentUserID(ctx); !ok {
		return unauthorized(ctx)
	}

	reader, contentType, err := h.userUseCase.GetAvatar(requestCtx, ctx.Params("user_id"))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	if contentType != "" {
		ctx.Set(fiber.HeaderContentType, contentType)
	}

	return ctx.SendStream(reader)
}
