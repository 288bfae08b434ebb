package entities

import (
	"errors"
	"fmt"
	"io"
)

// Ошибки файлового хранилища. ErrPathRejected означает, что путь из
// метаданных не разрешается внутрь корня хранилища; такой путь никогда
// не передается файловой системе.
var (
	ErrBlobNotFound  = errors.New("blob not found")
	ErrPathRejected  = errors.New("stored path rejected")
	ErrInvalidUpload = errors.New("invalid upload")

	ErrFileTooLarge        = fmt.Errorf("%w: file exceeds the maximum allowed size", ErrInvalidUpload)
	ErrTooManyFiles        = fmt.Errorf("%w: too many files in one request", ErrInvalidUpload)
	ErrExtensionNotAllowed = fmt.Errorf("%w: file extension is not allowed", ErrInvalidUpload)
	ErrMimeTypeNotAllowed  = fmt.Errorf("%w: file type is not allowed", ErrInvalidUpload)
)

// StoredBlob описывает файл, записанный в хранилище.
type StoredBlob struct {
	StoredName string
	StoredPath string
	SizeBytes  int64
	MimeType   string
}

// FileUpload описывает входящий файл до записи в хранилище.
// Open откладывает чтение содержимого до момента записи.
type FileUpload struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Open         func() (io.ReadCloser, error)
}
