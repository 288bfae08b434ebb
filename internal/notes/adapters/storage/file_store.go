package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vibenotes/internal/notes/domain/entities"
	portstorage "vibenotes/internal/notes/ports/storage"
	"vibenotes/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogBlobWritten = "blob written"
	LogBlobDeleted = "blob deleted"

	ErrorFailedToCreateRoot = "failed to create storage root"
	ErrorFailedToWriteBlob  = "failed to write blob"
	ErrorPathSanitization   = "stored path failed sanitization"
)

const (
	dirPerm          = 0o750
	maxSanitizedBase = 32
)

// FileStore реализует ports/storage.BlobStore поверх плоского корневого
// каталога. Имена файлов генерируются устойчивыми к коллизиям, поэтому
// конкурентные загрузки не перезаписывают файлы друг друга.
type FileStore struct {
	root   string
	prefix string
}

// NewFileStore создает файловое хранилище с указанным корнем и префиксом
// генерируемых имен. Корневой каталог создается лениво при первой записи.
func NewFileStore(root, prefix string) portstorage.BlobStore {
	return &FileStore{root: root, prefix: prefix}
}

// Put записывает содержимое файла под сгенерированным именем и возвращает
// описание сохраненного блоба. Файл создается с O_EXCL: совпадение имен
// приводит к ошибке, а не к перезаписи.
func (s *FileStore) Put(ctx context.Context, originalName, contentType string, data io.Reader) (*entities.StoredBlob, error) {
	log := logger.Log(ctx).With(zap.String("store", s.prefix), zap.String("method", "Put"))

	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		log.Error(ctx, ErrorFailedToCreateRoot, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToCreateRoot, err)
	}

	storedName := s.generateName(originalName)
	absPath, err := ResolveUnderRoot(s.root, storedName)
	if err != nil {
		return nil, fmt.Errorf("resolving generated name: %w", err)
	}

	file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		log.Error(ctx, ErrorFailedToWriteBlob, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToWriteBlob, err)
	}

	written, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// Неполный файл не должен оставаться в хранилище.
		_ = os.Remove(absPath)
		log.Error(ctx, ErrorFailedToWriteBlob, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToWriteBlob, err)
	}

	log.Debug(ctx, LogBlobWritten, zap.String("stored_name", storedName), zap.Int64("size", written))

	return &entities.StoredBlob{
		StoredName: storedName,
		StoredPath: storedName,
		SizeBytes:  written,
		MimeType:   contentType,
	}, nil
}

// Open открывает блоб по пути из метаданных. Путь предварительно
// санитизируется; отклоненный или отсутствующий путь дает
// entities.ErrBlobNotFound.
func (s *FileStore) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	log := logger.Log(ctx).With(zap.String("store", s.prefix), zap.String("method", "Open"))

	absPath, err := ResolveUnderRoot(s.root, storedPath)
	if err != nil {
		log.Warn(ctx, ErrorPathSanitization, zap.String("stored_path", storedPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entities.ErrBlobNotFound, err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, entities.ErrBlobNotFound
		}
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return file, nil
}

// Delete удаляет блоб по пути из метаданных. Путь, не прошедший
// санитизацию, трактуется как отсутствующий: оставить осиротевший блоб
// безопаснее, чем тронуть файл вне корня хранилища.
func (s *FileStore) Delete(ctx context.Context, storedPath string) error {
	log := logger.Log(ctx).With(zap.String("store", s.prefix), zap.String("method", "Delete"))

	absPath, err := ResolveUnderRoot(s.root, storedPath)
	if err != nil {
		log.Warn(ctx, ErrorPathSanitization, zap.String("stored_path", storedPath), zap.Error(err))
		return fmt.Errorf("%w: %w", entities.ErrBlobNotFound, err)
	}

	if err := os.Remove(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entities.ErrBlobNotFound
		}
		return fmt.Errorf("deleting blob: %w", err)
	}

	log.Debug(ctx, LogBlobDeleted, zap.String("stored_path", storedPath))
	return nil
}

// generateName строит имя вида <prefix>-<unixnano>-<случайный суффикс>-<база><ext>.
// База очищается до алфавитно-цифровых символов, враждебные файловой
// системе имена не доходят до диска.
func (s *FileStore) generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := sanitizeBaseName(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s-%s%s", s.prefix, time.Now().UnixNano(), suffix, base, ext)
}

// sanitizeBaseName оставляет в базовом имени только [a-zA-Z0-9].
func sanitizeBaseName(base string) string {
	var b strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxSanitizedBase {
			break
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
