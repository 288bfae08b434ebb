package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"vibenotes/internal/notes/adapters/http/middleware"
	"vibenotes/internal/notes/domain/entities"
	"vibenotes/pkg/logger"
)

// requestContext возвращает контекст запроса с идентификатором запроса.
func requestContext(ctx fiber.Ctx) context.Context {
	requestCtx := ctx.Context()
	if id, ok := ctx.Locals(middleware.RequestIDLocal).(string); ok {
		requestCtx = logger.NewRequestIDContext(requestCtx, id)
	}
	return requestCtx
}

// currentUserID возвращает идентификатор пользователя, установленный
// промежуточным ПО аутентификации.
func currentUserID(ctx fiber.Ctx) (string, bool) {
	userID, ok := ctx.Locals(middleware.UserIDLocal).(string)
	return userID, ok && userID != ""
}

// unauthorized отправляет типовой ответ 401.
func unauthorized(ctx fiber.Ctx) error {
	return ctx.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": ErrorUnauthorized})
}

// fileUploads преобразует multipart заголовки в доменные описания файлов.
// Содержимое не читается: размер и тип берутся из заголовков и проверяются
// политикой загрузки до записи в хранилище.
func fileUploads(headers []*multipart.FileHeader) []entities.FileUpload {
	uploads := make([]entities.FileUpload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, fileUpload(fh))
	}
	return uploads
}

func fileUpload(fh *multipart.FileHeader) entities.FileUpload {
	return entities.FileUpload{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		SizeBytes:    fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
