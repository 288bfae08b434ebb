// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"

	"vibenotes/internal/notes/domain/entities"
)

// NoteRepository определяет интерфейс для работы с репозиторием заметок
// и метаданными их вложений. Мутирующие методы принимают идентификатор
// владельца и возвращают entities.ErrNoteNotFound одинаково для
// несуществующей и для чужой заметки.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)

	FindByID(ctx context.Context, noteID string) (*entities.Note, error)

	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error)

	ListPublicByUser(ctx context.Context, userID string) ([]*entities.Note, error)

	Update(ctx context.Context, note *entities.Note, isPublic *bool) (*entities.Note, error)

	Delete(ctx context.Context, noteID, ownerID string) ([]entities.AttachmentRef, error)

	AddAttachment(ctx context.Context, att *entities.Attachment) (*entities.Attachment, error)

	ListAttachments(ctx context.Context, noteID string) ([]*entities.Attachment, error)

	GetAttachment(ctx context.Context, noteID, attachmentID string) (*entities.Attachment, error)

	RemoveAttachment(ctx context.Context, noteID, attachmentID, ownerID string) (*entities.AttachmentRef, error)

	CountAttachments(ctx context.Context, noteID string) (int, error)
}
