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

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

const noteColumns = "id, user_id, title, content, is_public, created_at, updated_at"

// scanNote сканирует одну строку заметки.
func scanNote(row pgx.Row) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.IsPublic, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Create сохраняет новую заметку в БД.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Create"))
	log.Debug(ctx, "creating new note", zap.String("userID", note.UserID))

	query := `
        INSERT INTO notes (user_id, title, content, is_public)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + noteColumns

	created, err := scanNote(r.pool.QueryRow(ctx, query, note.UserID, note.Title, note.Content, note.IsPublic))
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.String("noteID", created.ID))
	return created, nil
}

// FindByID получает заметку по ID без фильтра доступа: решение о
// видимости принимает уровень бизнес-логики.
func (r *NoteRepository) FindByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "FindByID"))

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(r.pool.QueryRow(ctx, query, noteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListByOwner получает все заметки пользователя, сначала недавно обновленные.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE user_id = $1
        ORDER BY updated_at DESC`

	return r.listNotes(ctx, "ListByOwner", query, ownerID)
}

// ListPublicByUser получает публичные заметки пользователя, сначала недавно обновленные.
func (r *NoteRepository) ListPublicByUser(ctx context.Context, userID string) ([]*entities.Note, error) {
	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE user_id = $1 AND is_public
        ORDER BY updated_at DESC`

	return r.listNotes(ctx, "ListPublicByUser", query, userID)
}

func (r *NoteRepository) listNotes(ctx context.Context, method, query string, args ...interface{}) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", method))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Update обновляет заголовок, содержимое и, если передан, флаг публичности.
// Отсутствующая и чужая заметка дают одинаковый entities.ErrNoteNotFound.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note, isPublic *bool) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Update"))
	log.Debug(ctx, "updating note", zap.String("noteID", note.ID))

	query := `
        UPDATE notes
        SET title = $1, content = $2, is_public = COALESCE($3, is_public), updated_at = now()
        WHERE id = $4 AND user_id = $5
        RETURNING ` + noteColumns

	updated, err := scanNote(r.pool.QueryRow(ctx, query, note.Title, note.Content, isPublic, note.ID, note.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found or not owned by user", zap.String("noteID", note.ID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to update note", zap.Error(err))
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return updated, nil
}

// Delete удаляет заметку вместе с метаданными вложений в одной транзакции
// и возвращает пути их блобов для последующей очистки файлов.
func (r *NoteRepository) Delete(ctx context.Context, noteID, ownerID string) ([]entities.AttachmentRef, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Delete"))
	log.Debug(ctx, "deleting note", zap.String("noteID", noteID))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "failed to begin transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`SELECT a.id, a.stored_path
         FROM attachments a
         JOIN notes n ON n.id = a.note_id
         WHERE a.note_id = $1 AND n.user_id = $2`,
		noteID, ownerID,
	)
	if err != nil {
		log.Error(ctx, "failed to collect attachment refs", zap.Error(err))
		return nil, fmt.Errorf("failed to collect attachment refs: %w", err)
	}

	refs := make([]entities.AttachmentRef, 0)
	for rows.Next() {
		var ref entities.AttachmentRef
		if err := rows.Scan(&ref.ID, &ref.StoredPath); err != nil {
			rows.Close()
			log.Error(ctx, "failed to scan attachment ref", zap.Error(err))
			return nil, fmt.Errorf("failed to scan attachment ref: %w", err)
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating attachment refs", zap.Error(err))
		return nil, fmt.Errorf("error iterating attachment refs: %w", err)
	}

	// Каскад по внешнему ключу удаляет строки вложений вместе с заметкой.
	result, err := tx.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, ownerID)
	if err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "note not found or not owned by user", zap.String("noteID", noteID))
		return nil, entities.ErrNoteNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "failed to commit transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug(ctx, "note deleted", zap.String("noteID", noteID), zap.Int("attachments", len(refs)))
	return refs, nil
}

// AddAttachment сохраняет метаданные вложения.
func (r *NoteRepository) AddAttachment(ctx context.Context, att *entities.Attachment) (*entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "AddAttachment"))
	log.Debug(ctx, "adding attachment", zap.String("noteID", att.NoteID))

	query := `
        INSERT INTO attachments (note_id, original_name, stored_name, stored_path, size_bytes, mime_type)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, note_id, original_name, stored_name, stored_path, size_bytes, mime_type, created_at`

	var created entities.Attachment
	err := r.pool.QueryRow(ctx, query,
		att.NoteID, att.OriginalName, att.StoredName, att.StoredPath, att.SizeBytes, att.MimeType,
	).Scan(
		&created.ID, &created.NoteID, &created.OriginalName, &created.StoredName,
		&created.StoredPath, &created.SizeBytes, &created.MimeType, &created.CreatedAt,
	)
	if err != nil {
		log.Error(ctx, "failed to add attachment", zap.Error(err))
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	return &created, nil
}

// ListAttachments возвращает метаданные вложений заметки.
func (r *NoteRepository) ListAttachments(ctx context.Context, noteID string) ([]*entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "ListAttachments"))

	rows, err := r.pool.Query(ctx,
		`SELECT id, note_id, original_name, stored_name, stored_path, size_bytes, mime_type, created_at
         FROM attachments
         WHERE note_id = $1
         ORDER BY created_at`,
		noteID,
	)
	if err != nil {
		log.Error(ctx, "failed to list attachments", zap.Error(err))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]*entities.Attachment, 0)
	for rows.Next() {
		var att entities.Attachment
		err := rows.Scan(&att.ID, &att.NoteID, &att.OriginalName, &att.StoredName,
			&att.StoredPath, &att.SizeBytes, &att.MimeType, &att.CreatedAt)
		if err != nil {
			log.Error(ctx, "failed to scan attachment", zap.Error(err))
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, &att)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attachments, nil
}

// GetAttachment возвращает метаданные одного вложения заметки.
func (r *NoteRepository) GetAttachment(ctx context.Context, noteID, attachmentID string) (*entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "GetAttachment"))

	var att entities.Attachment
	err := r.pool.QueryRow(ctx,
		`SELECT id, note_id, original_name, stored_name, stored_path, size_bytes, mime_type, created_at
         FROM attachments
         WHERE id = $1 AND note_id = $2`,
		attachmentID, noteID,
	).Scan(&att.ID, &att.NoteID, &att.OriginalName, &att.StoredName,
		&att.StoredPath, &att.SizeBytes, &att.MimeType, &att.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "attachment not found", zap.String("attachmentID", attachmentID))
			return nil, entities.ErrAttachmentNotFound
		}
		log.Error(ctx, "failed to get attachment", zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return &att, nil
}

// RemoveAttachment удаляет метаданные вложения, проверяя владение заметкой
// прямо в запросе, и возвращает путь блоба для очистки файла.
func (r *NoteRepository) RemoveAttachment(ctx context.Context, noteID, attachmentID, ownerID string) (*entities.AttachmentRef, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "RemoveAttachment"))
	log.Debug(ctx, "removing attachment", zap.String("attachmentID", attachmentID))

	query := `
        DELETE FROM attachments a
        USING notes n
        WHERE a.id = $1 AND a.note_id = $2 AND n.id = a.note_id AND n.user_id = $3
        RETURNING a.id, a.stored_path`

	var ref entities.AttachmentRef
	err := r.pool.QueryRow(ctx, query, attachmentID, noteID, ownerID).Scan(&ref.ID, &ref.StoredPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "attachment not found or note not owned by user")
			return nil, entities.ErrAttachmentNotFound
		}
		log.Error(ctx, "failed to remove attachment", zap.Error(err))
		return nil, fmt.Errorf("failed to remove attachment: %w", err)
	}

	return &ref, nil
}

// CountAttachments возвращает количество вложений заметки.
func (r *NoteRepository) CountAttachments(ctx context.Context, noteID string) (int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "CountAttachments"))

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attachments WHERE note_id = $1`, noteID).Scan(&count)
	if err != nil {
		log.Error(ctx, "failed to count attachments", zap.Error(err))
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}

	return count, nil
}
