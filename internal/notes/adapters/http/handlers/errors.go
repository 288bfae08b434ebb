// Package handlers содержит HTTP обработчики сервиса заметок.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	domainsvc "vibenotes/internal/notes/domain/services"
	"vibenotes/pkg/logger"
)

// Внешне видимые сообщения об ошибках категориальны: детали внутренних
// ошибок логируются, но не попадают в тело ответа.
const (
	ErrorInternal     = "internal server error"
	ErrorUnauthorized = "unauthorized"
)

// respondError отображает доменную ошибку в HTTP статус и типовое тело.
func respondError(ctx fiber.Ctx, requestCtx context.Context, err error) error {
	switch {
	case errors.Is(err, entities.ErrInvalidNoteData),
		errors.Is(err, entities.ErrInvalidUpload),
		errors.Is(err, entities.ErrInvalidUserData),
		errors.Is(err, domainsvc.ErrInvalidPassword):
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, entities.ErrInvalidCredentials):
		return ctx.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": entities.ErrInvalidCredentials.Error()})

	case errors.Is(err, entities.ErrUsernameTaken):
		return ctx.Status(http.StatusConflict).JSON(fiber.Map{"error": entities.ErrUsernameTaken.Error()})

	case errors.Is(err, entities.ErrNoteNotFound),
		errors.Is(err, entities.ErrAttachmentNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrBlobNotFound),
		errors.Is(err, entities.ErrPathRejected):
		return ctx.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not found"})

	default:
		logger.Log(requestCtx).Error(requestCtx, "request failed", zap.Error(err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": ErrorInternal})
	}
}
