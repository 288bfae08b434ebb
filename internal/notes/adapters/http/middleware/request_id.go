// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"vibenotes/pkg/logger"
)

// RequestIDLocal - ключ Locals с идентификатором запроса.
const RequestIDLocal = "requestID"

// HeaderRequestID - имя заголовка с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

// NewRequestIDMiddleware присваивает каждому запросу идентификатор и
// возвращает его в заголовке ответа.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}

		ctx.Locals(RequestIDLocal, requestID)
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}
