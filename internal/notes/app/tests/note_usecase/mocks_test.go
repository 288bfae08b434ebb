package noteusecase_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"vibenotes/internal/notes/domain/entities"
)

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) FindByID(ctx context.Context, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListPublicByUser(ctx context.Context, userID string) ([]*entities.Note, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *entities.Note, isPublic *bool) (*entities.Note, error) {
	args := m.Called(ctx, note, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, noteID, ownerID string) ([]entities.AttachmentRef, error) {
	args := m.Called(ctx, noteID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AttachmentRef), args.Error(1)
}

func (m *mockNoteRepository) AddAttachment(ctx context.Context, att *entities.Attachment) (*entities.Attachment, error) {
	args := m.Called(ctx, att)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Attachment), args.Error(1)
}

func (m *mockNoteRepository) ListAttachments(ctx context.Context, noteID string) ([]*entities.Attachment, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Attachment), args.Error(1)
}

func (m *mockNoteRepository) GetAttachment(ctx context.Context, noteID, attachmentID string) (*entities.Attachment, error) {
	args := m.Called(ctx, noteID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Attachment), args.Error(1)
}

func (m *mockNoteRepository) RemoveAttachment(ctx context.Context, noteID, attachmentID, ownerID string) (*entities.AttachmentRef, error) {
	args := m.Called(ctx, noteID, attachmentID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AttachmentRef), args.Error(1)
}

func (m *mockNoteRepository) CountAttachments(ctx context.Context, noteID string) (int, error) {
	args := m.Called(ctx, noteID)
	return args.Int(0), args.Error(1)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Put(ctx context.Context, originalName, contentType string, data io.Reader) (*entities.StoredBlob, error) {
	args := m.Called(ctx, originalName, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StoredBlob), args.Error(1)
}

func (m *mockBlobStore) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, storedPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, storedPath string) error {
	return m.Called(ctx, storedPath).Error(0)
}

// stubCache - потокобезопасный кэш в памяти для тестов.
type stubCache struct {
	mu      sync.Mutex
	values  map[string]string
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *stubCache) Close() error { return nil }

func upload(name, contentType string, size int64) entities.FileUpload {
	return entities.FileUpload{
		OriginalName: name,
		ContentType:  contentType,
		SizeBytes:    size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(strings.Repeat("x", int(size)))), nil
		},
	}
}
