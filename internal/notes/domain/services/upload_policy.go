package services

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"vibenotes/internal/notes/domain/entities"
)

// UploadPolicy проверяет входящие файлы по белым спискам расширений и
// MIME типов и по лимитам размера и количества. Отклонение на этом этапе
// гарантирует, что ни один байт отклоненной партии не попадет в хранилище.
type UploadPolicy struct {
	allowedExts  map[string]struct{}
	allowedMimes map[string]struct{}
	maxFileSize  int64
	maxFiles     int
}

// NewUploadPolicy создает политику загрузки из белых списков и лимитов.
// Расширения и MIME типы сравниваются без учета регистра.
func NewUploadPolicy(allowedExts, allowedMimes []string, maxFileSize int64, maxFiles int) *UploadPolicy {
	exts := make(map[string]struct{}, len(allowedExts))
	for _, e := range allowedExts {
		exts[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	mimes := make(map[string]struct{}, len(allowedMimes))
	for _, m := range allowedMimes {
		mimes[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &UploadPolicy{
		allowedExts:  exts,
		allowedMimes: mimes,
		maxFileSize:  maxFileSize,
		maxFiles:     maxFiles,
	}
}

// MaxFiles возвращает максимальное количество файлов в одном запросе.
func (p *UploadPolicy) MaxFiles() int {
	return p.maxFiles
}

// ValidateFile проверяет один файл: и расширение, и заявленный MIME тип
// должны входить в белый список; размер проверяется по заявленной длине
// до чтения содержимого.
func (p *UploadPolicy) ValidateFile(f entities.FileUpload) error {
	if f.SizeBytes > p.maxFileSize {
		return fmt.Errorf("%w: %q has %d bytes, limit is %d", entities.ErrFileTooLarge, f.OriginalName, f.SizeBytes, p.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(f.OriginalName))
	if _, ok := p.allowedExts[ext]; !ok {
		return fmt.Errorf("%w: %q", entities.ErrExtensionNotAllowed, ext)
	}

	mediaType := strings.ToLower(strings.TrimSpace(f.ContentType))
	if parsed, _, err := mime.ParseMediaType(f.ContentType); err == nil {
		mediaType = parsed
	}
	if _, ok := p.allowedMimes[mediaType]; !ok {
		return fmt.Errorf("%w: %q", entities.ErrMimeTypeNotAllowed, mediaType)
	}

	return nil
}

// ValidateBatch проверяет партию файлов целиком: превышение лимита
// количества отклоняет всю партию, как и отказ любого отдельного файла.
func (p *UploadPolicy) ValidateBatch(files []entities.FileUpload) error {
	if len(files) > p.maxFiles {
		return fmt.Errorf("%w: got %d, limit is %d", entities.ErrTooManyFiles, len(files), p.maxFiles)
	}
	for _, f := range files {
		if err := p.ValidateFile(f); err != nil {
			return err
		}
	}
	return nil
}
