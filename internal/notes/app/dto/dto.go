// Package dto содержит объекты передачи данных HTTP интерфейса.
package dto

import (
	"time"

	"vibenotes/internal/notes/domain/entities"
)

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse содержит данные о выданном токене доступа.
type TokenResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ProfileUpdateRequest содержит данные для обновления профиля.
type ProfileUpdateRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Description string `json:"description"`
}

// AttachmentResponse содержит метаданные вложения для ответа.
type AttachmentResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	SizeBytes    int64     `json:"size_bytes"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// NoteResponse содержит заметку с вложениями для ответа.
type NoteResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	IsPublic    bool                 `json:"is_public"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// NoteListResponse содержит список заметок без вложений.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int            `json:"total"`
}

// NewAttachmentResponse строит AttachmentResponse из доменной сущности.
func NewAttachmentResponse(att *entities.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           att.ID,
		OriginalName: att.OriginalName,
		SizeBytes:    att.SizeBytes,
		MimeType:     att.MimeType,
		CreatedAt:    att.CreatedAt,
	}
}

// NewNoteResponse строит NoteResponse из доменных сущностей.
func NewNoteResponse(note *entities.Note, attachments []*entities.Attachment) NoteResponse {
	resp := NoteResponse{
		ID:          note.ID,
		UserID:      note.UserID,
		Title:       note.Title,
		Content:     note.Content,
		IsPublic:    note.IsPublic,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
		Attachments: make([]AttachmentResponse, 0, len(attachments)),
	}
	for _, att := range attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(att))
	}
	return resp
}

// NewNoteListResponse строит список заметок из доменных сущностей.
func NewNoteListResponse(notes []*entities.Note) NoteListResponse {
	resp := NoteListResponse{
		Notes: make([]NoteResponse, 0, len(notes)),
		Total: len(notes),
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, NewNoteResponse(note, nil))
	}
	return resp
}
