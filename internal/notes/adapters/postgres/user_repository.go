package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	"vibenotes/internal/notes/ports/repositories"
	"vibenotes/pkg/logger"
)

// UserRepository реализует интерфейс repositories.UserRepository для работы с Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = "id, username, password_hash, description, avatar_path, created_at, updated_at"

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Description,
		&user.AvatarPath, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create создает нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (username, password_hash, description)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Description))
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "username already taken", zap.String("username", user.Username))
			return nil, entities.ErrUsernameTaken
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return user, nil
}

// FindByUsername находит пользователя по имени.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByUsername"))

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("username", username))
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error finding user by username", zap.Error(err))
		return nil, fmt.Errorf("error querying user by username: %w", err)
	}

	return user, nil
}

// UpdateProfile обновляет имя и описание пользователя.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, username, description string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdateProfile"))

	query := `
        UPDATE users
        SET username = $2, description = $3, updated_at = now()
        WHERE id = $1
        RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query, id, username, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for update", zap.String("id", id))
			return nil, entities.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			log.Debug(ctx, "username already taken", zap.String("username", username))
			return nil, entities.ErrUsernameTaken
		}
		log.Error(ctx, "error updating user", zap.Error(err))
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return updated, nil
}

// UpdateAvatar записывает путь нового аватара и возвращает прежний путь,
// чтобы вызывающий мог удалить старый блоб.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarPath string) (string, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "UpdateAvatar"))

	query := `
        UPDATE users u
        SET avatar_path = $2, updated_at = now()
        FROM (SELECT id, avatar_path FROM users WHERE id = $1) old
        WHERE u.id = old.id
        RETURNING old.avatar_path`

	var previous string
	err := r.pool.QueryRow(ctx, query, id, avatarPath).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found for avatar update", zap.String("id", id))
			return "", entities.ErrUserNotFound
		}
		log.Error(ctx, "error updating avatar", zap.Error(err))
		return "", fmt.Errorf("error updating avatar: %w", err)
	}

	return previous, nil
}
