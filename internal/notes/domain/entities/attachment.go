package entities

import (
	"errors"
	"time"
)

// Ошибки домена вложений.
var ErrAttachmentNotFound = errors.New("attachment not found")

// Attachment представляет метаданные файла, прикрепленного к заметке.
type Attachment struct {
	ID           string    `json:"id"`
	NoteID       string    `json:"note_id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"-"`
	StoredPath   string    `json:"-"`
	SizeBytes    int64     `json:"size_bytes"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttachmentRef указывает на блоб вложения, метаданные которого уже удалены.
// Используется для последующей очистки файлов.
type AttachmentRef struct {
	ID         string
	StoredPath string
}
