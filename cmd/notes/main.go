// Package main реализует точку входа сервиса заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"vibenotes/internal/notes/adapters/cache"
	httpServer "vibenotes/internal/notes/adapters/http"
	"vibenotes/internal/notes/adapters/postgres"
	svcadapters "vibenotes/internal/notes/adapters/services"
	"vibenotes/internal/notes/adapters/storage"
	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/config"
	"vibenotes/internal/notes/db"
	domainsvc "vibenotes/internal/notes/domain/services"
	"vibenotes/pkg/logger"
	"vibenotes/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitCache            = "failed to initialize cache"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes service started"
	LogServiceShutdownDone = "notes service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing Redis connection"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitStorage         = "initializing blob stores"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

// Префиксы генерируемых имен файлов.
const (
	attachmentPrefix = "att"
	avatarPrefix     = "ava"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres, "migrations/notes")
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrInitCache, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		noteRepo := repoFactory.NoteRepository()
		userRepo := repoFactory.UserRepository()

		log.Info(ctx, LogInitStorage)
		attachmentStore := storage.NewFileStore(cfg.Storage.AttachmentsDir, attachmentPrefix)
		avatarStore := storage.NewFileStore(cfg.Storage.AvatarsDir, avatarPrefix)

		log.Info(ctx, LogInitServices)
		tokenService := svcadapters.NewJWT(cfg.JWT.SecretKey, cfg.JWT.GetAccessTokenTTL())
		passwordService := svcadapters.NewBcrypt(cfg.JWT.BCryptCost)
		uploadPolicy := domainsvc.NewUploadPolicy(
			cfg.Uploads.AllowedExtensions, cfg.Uploads.AllowedMimeTypes,
			cfg.Uploads.MaxFileSize, cfg.Uploads.MaxFilesPerNote)
		avatarPolicy := domainsvc.NewUploadPolicy(
			cfg.Uploads.AvatarAllowedExtensions, cfg.Uploads.AvatarAllowedMimeTypes,
			cfg.Uploads.AvatarMaxFileSize, 1)

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(userRepo, passwordService, tokenService)
		noteUseCase := app.NewNoteUseCase(noteRepo, attachmentStore, uploadPolicy, redisCache,
			app.NoteLimits{
				MaxTitleLength:   cfg.Uploads.MaxTitleLength,
				MaxContentLength: cfg.Uploads.MaxContentLength,
			},
			cfg.Redis.PublicListTTL)
		userUseCase := app.NewUserUseCase(userRepo, avatarStore, avatarPolicy, redisCache, cfg.Redis.ProfileTTL)

		log.Info(ctx, LogInitHTTPServer)
		fiberApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})

		httpServer.SetupRouter(fiberApp, authUseCase, noteUseCase, userUseCase, tokenService)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return fiberApp.Shutdown()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				return redisCache.Close()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingDB)
				database.Close(ctx)
				return nil
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
