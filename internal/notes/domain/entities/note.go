package entities

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки домена заметок. ErrNoteNotFound возвращается одинаково и для
// несуществующей заметки, и для чужой: вызывающий не должен уметь
// отличить одно от другого.
var (
	ErrInvalidNoteData = errors.New("invalid note data")
	ErrNoteNotFound    = errors.New("note not found")

	ErrEmptyTitle     = fmt.Errorf("%w: title is required", ErrInvalidNoteData)
	ErrTitleTooLong   = fmt.Errorf("%w: title is too long", ErrInvalidNoteData)
	ErrEmptyContent   = fmt.Errorf("%w: content is required", ErrInvalidNoteData)
	ErrContentTooLong = fmt.Errorf("%w: content is too long", ErrInvalidNoteData)
)

// Note представляет собой заметку пользователя.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает новую заметку с указанными владельцем, заголовком и содержимым.
func NewNote(userID, title, content string, isPublic bool) *Note {
	now := time.Now()
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		IsPublic:  isPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
