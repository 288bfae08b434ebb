package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/app/dto"
	"vibenotes/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerCreateNote       = "note handler: create"
	LogHandlerGetNote          = "note handler: get"
	LogHandlerListNotes        = "note handler: list own"
	LogHandlerListPublicNotes  = "note handler: list public"
	LogHandlerUpdateNote       = "note handler: update"
	LogHandlerDeleteNote       = "note handler: delete"
	LogHandlerDownloadFile     = "note handler: download attachment"
	LogHandlerRemoveAttachment = "note handler: remove attachment"
)

// Имена полей multipart формы.
const (
	fieldTitle    = "title"
	fieldContent  = "content"
	fieldIsPublic = "is_public"
	fieldFiles    = "files"
)

// NoteHandler содержит HTTP обработчики для заметок и вложений.
type NoteHandler struct {
	noteUseCase *app.NoteUseCase
}

// NewNoteHandler создает новый экземпляр обработчика заметок.
func NewNoteHandler(noteUseCase *app.NoteUseCase) *NoteHandler {
	return &NoteHandler{noteUseCase: noteUseCase}
}

// formFiles извлекает файлы из multipart формы. Запрос без формы или без
// файлов дает пустой список.
func formFiles(ctx fiber.Ctx) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[fieldFiles]
}

// Create обрабатывает создание заметки с вложениями.
func (h *NoteHandler) Create(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerCreateNote)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	isPublic := false
	if raw := ctx.FormValue(fieldIsPublic); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "is_public must be a boolean"})
		}
		isPublic = parsed
	}

	note, attachments, err := h.noteUseCase.CreateNote(requestCtx, userID,
		ctx.FormValue(fieldTitle), ctx.FormValue(fieldContent), isPublic, fileUploads(formFiles(ctx)))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusCreated).JSON(dto.NewNoteResponse(note, attachments))
}

// Get обрабатывает чтение заметки с вложениями.
func (h *NoteHandler) Get(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerGetNote)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	note, attachments, err := h.noteUseCase.GetNote(requestCtx, userID, ctx.Params("note_id"))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(dto.NewNoteResponse(note, attachments))
}

// List обрабатывает чтение собственных заметок пользователя.
func (h *NoteHandler) List(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerListNotes)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	notes, err := h.noteUseCase.ListNotes(requestCtx, userID)
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(dto.NewNoteListResponse(notes))
}

// ListPublic обрабатывает чтение публичных заметок указанного пользователя.
func (h *NoteHandler) ListPublic(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerListPublicNotes)

	if _, ok := currentUserID(ctx); !ok {
		return unauthorized(ctx)
	}

	notes, err := h.noteUseCase.ListPublicNotes(requestCtx, ctx.Params("user_id"))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(dto.NewNoteListResponse(notes))
}

// Update обрабатывает обновление полей заметки и добавление вложений.
func (h *NoteHandler) Update(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerUpdateNote)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	// Отсутствие поля is_public сохраняет текущую видимость.
	var isPublic *bool
	if raw := ctx.FormValue(fieldIsPublic); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "is_public must be a boolean"})
		}
		isPublic = &parsed
	}

	note, attachments, err := h.noteUseCase.UpdateNote(requestCtx, userID, ctx.Params("note_id"),
		ctx.FormValue(fieldTitle), ctx.FormValue(fieldContent), isPublic, fileUploads(formFiles(ctx)))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(dto.NewNoteResponse(note, attachments))
}

// Delete обрабатывает удаление заметки с каскадом вложений.
func (h *NoteHandler) Delete(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerDeleteNote)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	if err := h.noteUseCase.DeleteNote(requestCtx, userID, ctx.Params("note_id")); err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{"message": "note deleted"})
}

// DownloadAttachment обрабатывает скачивание вложения.
func (h *NoteHandler) DownloadAttachment(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerDownloadFile)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	att, reader, err := h.noteUseCase.DownloadAttachment(requestCtx, userID,
		ctx.Params("note_id"), ctx.Params("attachment_id"))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	ctx.Set(fiber.HeaderContentType, att.MimeType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", att.OriginalName))

	return ctx.SendStream(reader, int(att.SizeBytes))
}

// RemoveAttachment обрабатывает удаление одного вложения.
func (h *NoteHandler) RemoveAttachment(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	logger.Log(requestCtx).Info(requestCtx, LogHandlerRemoveAttachment)

	userID, ok := currentUserID(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	err := h.noteUseCase.RemoveAttachment(requestCtx, userID, ctx.Params("note_id"), ctx.Params("attachment_id"))
	if err != nil {
		return respondError(ctx, requestCtx, err)
	}

	return ctx.Status(http.StatusOK).JSON(fiber.Map{"message": "attachment deleted"})
}
