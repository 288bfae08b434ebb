// Package storage определяет интерфейс файлового хранилища блобов.
package storage

import (
	"context"
	"io"

	"vibenotes/internal/notes/domain/entities"
)

// BlobStore определяет интерфейс для записи, чтения и удаления блобов.
// Реализации обязаны пропускать каждый путь, пришедший из метаданных,
// через санитизацию до любого обращения к файловой системе.
type BlobStore interface {
	Put(ctx context.Context, originalName, contentType string, data io.Reader) (*entities.StoredBlob, error)

	Open(ctx context.Context, storedPath string) (io.ReadCloser, error)

	Delete(ctx context.Context, storedPath string) error
}
