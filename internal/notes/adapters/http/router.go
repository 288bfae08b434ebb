// Package http содержит компоненты HTTP сервера сервиса заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"vibenotes/internal/notes/adapters/http/handlers"
	"vibenotes/internal/notes/adapters/http/middleware"
	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/ports/services"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(
	fiberApp *fiber.App,
	authUseCase *app.AuthUseCase,
	noteUseCase *app.NoteUseCase,
	userUseCase *app.UserUseCase,
	tokenService services.TokenService,
) {
	authHandler := handlers.NewAuthHandler(authUseCase)
	noteHandler := handlers.NewNoteHandler(noteUseCase)
	userHandler := handlers.NewUserHandler(userUseCase)

	// Middleware для всех запросов.
	fiberApp.Use(middleware.NewRequestIDMiddleware())
	fiberApp.Use(middleware.NewLoggerMiddleware())
	fiberApp.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := fiberApp.Group("/api/v1")

	// Auth routes (публичные).
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	requireAuth := middleware.NewAuthMiddleware(tokenService)

	// Профиль и аватары.
	userRoutes := apiV1.Group("/user")
	userRoutes.Use(requireAuth)
	userRoutes.Get("/profile", userHandler.GetProfile)
	userRoutes.Patch("/profile", userHandler.UpdateProfile)
	userRoutes.Put("/avatar", userHandler.UpdateAvatar)

	usersRoutes := apiV1.Group("/users")
	usersRoutes.Use(requireAuth)
	usersRoutes.Get("/:user_id/avatar", userHandler.GetAvatar)

	// Заметки и вложения.
	noteRoutes := apiV1.Group("/notes")
	noteRoutes.Use(requireAuth)
	noteRoutes.Post("/", noteHandler.Create)
	noteRoutes.Get("/", noteHandler.List)
	noteRoutes.Get("/user/:user_id/public", noteHandler.ListPublic)
	noteRoutes.Get("/:note_id", noteHandler.Get)
	noteRoutes.Put("/:note_id", noteHandler.Update)
	noteRoutes.Delete("/:note_id", noteHandler.Delete)
	noteRoutes.Get("/:note_id/attachments/:attachment_id", noteHandler.DownloadAttachment)
	noteRoutes.Delete("/:note_id/attachments/:attachment_id", noteHandler.RemoveAttachment)

	// Обработчик для несуществующих маршрутов.
	fiberApp.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
