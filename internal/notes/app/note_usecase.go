// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	domainsvc "vibenotes/internal/notes/domain/services"
	"vibenotes/internal/notes/ports/cache"
	"vibenotes/internal/notes/ports/repositories"
	"vibenotes/internal/notes/ports/storage"
	"vibenotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogBlobCleanup        = "removing blobs written by failed request"
	LogBlobCleanupFailed  = "failed to remove blob during cleanup"
	LogBlobDeleteFailed   = "failed to remove blob after metadata delete"
	LogCacheReadFailed    = "public list cache read failed"
	LogCacheWriteFailed   = "public list cache write failed"
	LogCacheInvalidFailed = "public list cache invalidation failed"
)

const publicListKeyPrefix = "public_notes:"

// NoteLimits содержит лимиты длины полей заметки.
type NoteLimits struct {
	MaxTitleLength   int
	MaxContentLength int
}

// NoteUseCase оркестрирует файловое хранилище и репозиторий метаданных так,
// чтобы создание, обновление и удаление заметки с вложениями либо оставляло
// полностью согласованный результат, либо убирало за собой. Конвейер
// записи: валидация -> блобы -> метаданные -> компенсация при ошибке.
type NoteUseCase struct {
	noteRepo      repositories.NoteRepository
	blobs         storage.BlobStore
	uploadPolicy  *domainsvc.UploadPolicy
	cache         cache.Cache
	limits        NoteLimits
	publicListTTL time.Duration
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(
	noteRepo repositories.NoteRepository,
	blobs storage.BlobStore,
	uploadPolicy *domainsvc.UploadPolicy,
	noteCache cache.Cache,
	limits NoteLimits,
	publicListTTL time.Duration,
) *NoteUseCase {
	return &NoteUseCase{
		noteRepo:      noteRepo,
		blobs:         blobs,
		uploadPolicy:  uploadPolicy,
		cache:         noteCache,
		limits:        limits,
		publicListTTL: publicListTTL,
	}
}

// CreateNote создает заметку с вложениями за одну логическую операцию.
// Ошибка на этапе метаданных удаляет все блобы, записанные этим запросом:
// снаружи неудавшееся создание выглядит как "ни заметки, ни файлов".
func (uc *NoteUseCase) CreateNote(ctx context.Context, userID, title, content string, isPublic bool, files []entities.FileUpload) (*entities.Note, []*entities.Attachment, error) {
	title = strings.TrimSpace(title)

	if err := uc.validateFields(title, content); err != nil {
		return nil, nil, err
	}
	if err := uc.uploadPolicy.ValidateBatch(files); err != nil {
		return nil, nil, err
	}

	blobs, err := uc.putBlobs(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	note, err := uc.noteRepo.Create(ctx, entities.NewNote(userID, title, content, isPublic))
	if err != nil {
		uc.cleanupBlobs(ctx, blobs)
		return nil, nil, fmt.Errorf("failed to create note: %w", err)
	}

	attachments, err := uc.addAttachments(ctx, note.ID, files, blobs)
	if err != nil {
		// Заметка без части вложений не должна остаться видимой.
		if _, delErr := uc.noteRepo.Delete(ctx, note.ID, userID); delErr != nil {
			logger.Log(ctx).Warn(ctx, "failed to remove note after attachment failure", zap.Error(delErr))
		}
		uc.cleanupBlobs(ctx, blobs)
		return nil, nil, err
	}

	uc.invalidatePublicList(ctx, userID)
	return note, attachments, nil
}

// GetNote возвращает заметку с вложениями, если запрашивающий - владелец
// или заметка публична. Отказ в доступе неотличим от отсутствия заметки.
func (uc *NoteUseCase) GetNote(ctx context.Context, requesterID, noteID string) (*entities.Note, []*entities.Attachment, error) {
	note, err := uc.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}
	if !domainsvc.Decide(requesterID, note).CanRead() {
		return nil, nil, entities.ErrNoteNotFound
	}

	attachments, err := uc.noteRepo.ListAttachments(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}

	return note, attachments, nil
}

// ListNotes возвращает собственные заметки пользователя, сначала недавно обновленные.
func (uc *NoteUseCase) ListNotes(ctx context.Context, userID string) ([]*entities.Note, error) {
	notes, err := uc.noteRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ListPublicNotes возвращает публичные заметки указанного пользователя.
// Результат кэшируется с коротким TTL; отказ кэша не ломает запрос.
func (uc *NoteUseCase) ListPublicNotes(ctx context.Context, targetUserID string) ([]*entities.Note, error) {
	log := logger.Log(ctx)
	key := publicListKeyPrefix + targetUserID

	if cached, err := uc.cache.Get(ctx, key); err != nil {
		log.Warn(ctx, LogCacheReadFailed, zap.Error(err))
	} else if cached != "" {
		var notes []*entities.Note
		if err := json.Unmarshal([]byte(cached), &notes); err == nil {
			return notes, nil
		}
		log.Warn(ctx, LogCacheReadFailed, zap.String("key", key))
	}

	notes, err := uc.noteRepo.ListPublicByUser(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list public notes: %w", err)
	}

	if encoded, err := json.Marshal(notes); err == nil {
		if err := uc.cache.Set(ctx, key, string(encoded), uc.publicListTTL); err != nil {
			log.Warn(ctx, LogCacheWriteFailed, zap.Error(err))
		}
	}

	return notes, nil
}

// UpdateNote обновляет поля заметки и добавляет новые вложения. Существующие
// вложения никогда не удаляются неявно. Передача nil в isPublic сохраняет
// текущую видимость.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, userID, noteID, title, content string, isPublic *bool, files []entities.FileUpload) (*entities.Note, []*entities.Attachment, error) {
	title = strings.TrimSpace(title)

	if err := uc.validateFields(title, content); err != nil {
		return nil, nil, err
	}
	if err := uc.uploadPolicy.ValidateBatch(files); err != nil {
		return nil, nil, err
	}

	// Право на изменение проверяется до подсчета вложений, чтобы лимитные
	// ошибки не раскрывали существование чужих заметок.
	existing, err := uc.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}
	if !domainsvc.Decide(userID, existing).CanMutate() {
		return nil, nil, entities.ErrNoteNotFound
	}

	if len(files) > 0 {
		count, err := uc.noteRepo.CountAttachments(ctx, noteID)
		if err != nil {
			return nil, nil, err
		}
		if count+len(files) > uc.uploadPolicy.MaxFiles() {
			return nil, nil, fmt.Errorf("%w: note already has %d attachments, limit is %d",
				entities.ErrTooManyFiles, count, uc.uploadPolicy.MaxFiles())
		}
	}

	blobs, err := uc.putBlobs(ctx, files)
	if err != nil {
		return nil, nil, err
	}

	note := &entities.Note{ID: noteID, UserID: userID, Title: title, Content: content}
	updated, err := uc.noteRepo.Update(ctx, note, isPublic)
	if err != nil {
		uc.cleanupBlobs(ctx, blobs)
		return nil, nil, err
	}

	if _, err := uc.addAttachments(ctx, noteID, files, blobs); err != nil {
		uc.cleanupBlobs(ctx, blobs)
		return nil, nil, err
	}

	attachments, err := uc.noteRepo.ListAttachments(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}

	uc.invalidatePublicList(ctx, userID)
	return updated, attachments, nil
}

// DeleteNote удаляет заметку с каскадом метаданных вложений, затем убирает
// их блобы. Метаданные авторитетны: ошибка удаления блоба логируется и не
// меняет результат - осиротевший блоб допустим, висящая строка метаданных нет.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, userID, noteID string) error {
	log := logger.Log(ctx)

	refs, err := uc.noteRepo.Delete(ctx, noteID, userID)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if err := uc.blobs.Delete(ctx, ref.StoredPath); err != nil {
			log.Warn(ctx, LogBlobDeleteFailed,
				zap.String("attachmentID", ref.ID),
				zap.String("stored_path", ref.StoredPath),
				zap.Error(err))
		}
	}

	uc.invalidatePublicList(ctx, userID)
	return nil
}

// RemoveAttachment удаляет одно вложение: сначала метаданные с проверкой
// владения, затем блоб. Путь, не прошедший санитизацию, трактуется как
// отсутствующий блоб и не трогает файловую систему.
func (uc *NoteUseCase) RemoveAttachment(ctx context.Context, userID, noteID, attachmentID string) error {
	log := logger.Log(ctx)

	ref, err := uc.noteRepo.RemoveAttachment(ctx, noteID, attachmentID, userID)
	if err != nil {
		return err
	}

	if err := uc.blobs.Delete(ctx, ref.StoredPath); err != nil {
		log.Warn(ctx, LogBlobDeleteFailed,
			zap.String("attachmentID", ref.ID),
			zap.String("stored_path", ref.StoredPath),
			zap.Error(err))
	}

	uc.invalidatePublicList(ctx, userID)
	return nil
}

// DownloadAttachment открывает блоб вложения для чтения. Доступ решается
// так же, как при чтении заметки.
func (uc *NoteUseCase) DownloadAttachment(ctx context.Context, requesterID, noteID, attachmentID string) (*entities.Attachment, io.ReadCloser, error) {
	note, err := uc.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, nil, err
	}
	if !domainsvc.Decide(requesterID, note).CanRead() {
		return nil, nil, entities.ErrNoteNotFound
	}

	att, err := uc.noteRepo.GetAttachment(ctx, noteID, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := uc.blobs.Open(ctx, att.StoredPath)
	if err != nil {
		return nil, nil, err
	}

	return att, reader, nil
}

// validateFields проверяет поля заметки до любых побочных эффектов.
func (uc *NoteUseCase) validateFields(title, content string) error {
	if title == "" {
		return entities.ErrEmptyTitle
	}
	if len(title) > uc.limits.MaxTitleLength {
		return entities.ErrTitleTooLong
	}
	if strings.TrimSpace(content) == "" {
		return entities.ErrEmptyContent
	}
	if len(content) > uc.limits.MaxContentLength {
		return entities.ErrContentTooLong
	}
	return nil
}

// putBlobs записывает принятые файлы в хранилище. Любая ошибка, включая
// отмену запроса посреди загрузки, удаляет уже записанные блобы: брошенный
// и отклоненный запросы для хранилища неразличимы.
func (uc *NoteUseCase) putBlobs(ctx context.Context, files []entities.FileUpload) ([]*entities.StoredBlob, error) {
	blobs := make([]*entities.StoredBlob, 0, len(files))

	for _, f := range files {
		blob, err := uc.putBlob(ctx, f)
		if err != nil {
			uc.cleanupBlobs(ctx, blobs)
			return nil, err
		}
		blobs = append(blobs, blob)
	}

	return blobs, nil
}

func (uc *NoteUseCase) putBlob(ctx context.Context, f entities.FileUpload) (*entities.StoredBlob, error) {
	data, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", f.OriginalName, err)
	}
	defer func() { _ = data.Close() }()

	blob, err := uc.blobs.Put(ctx, f.OriginalName, f.ContentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload %q: %w", f.OriginalName, err)
	}
	return blob, nil
}

// addAttachments сохраняет строки метаданных для записанных блобов.
func (uc *NoteUseCase) addAttachments(ctx context.Context, noteID string, files []entities.FileUpload, blobs []*entities.StoredBlob) ([]*entities.Attachment, error) {
	attachments := make([]*entities.Attachment, 0, len(blobs))

	for i, blob := range blobs {
		att, err := uc.noteRepo.AddAttachment(ctx, &entities.Attachment{
			NoteID:       noteID,
			OriginalName: files[i].OriginalName,
			StoredName:   blob.StoredName,
			StoredPath:   blob.StoredPath,
			SizeBytes:    blob.SizeBytes,
			MimeType:     blob.MimeType,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add attachment: %w", err)
		}
		attachments = append(attachments, att)
	}

	return attachments, nil
}

// cleanupBlobs удаляет блобы, записанные неудавшимся запросом.
func (uc *NoteUseCase) cleanupBlobs(ctx context.Context, blobs []*entities.StoredBlob) {
	if len(blobs) == 0 {
		return
	}

	log := logger.Log(ctx)
	log.Info(ctx, LogBlobCleanup, zap.Int("count", len(blobs)))

	for _, blob := range blobs {
		if err := uc.blobs.Delete(ctx, blob.StoredPath); err != nil {
			log.Warn(ctx, LogBlobCleanupFailed, zap.String("stored_path", blob.StoredPath), zap.Error(err))
		}
	}
}

// invalidatePublicList сбрасывает кэш публичного списка владельца.
func (uc *NoteUseCase) invalidatePublicList(ctx context.Context, userID string) {
	if err := uc.cache.Delete(ctx, publicListKeyPrefix+userID); err != nil {
		logger.Log(ctx).Warn(ctx, LogCacheInvalidFailed, zap.String("userID", userID), zap.Error(err))
	}
}
