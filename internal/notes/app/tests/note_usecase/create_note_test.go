package noteusecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/domain/entities"
	domainsvc "vibenotes/internal/notes/domain/services"
	portstorage "vibenotes/internal/notes/ports/storage"
)

func testPolicy() *domainsvc.UploadPolicy {
	return domainsvc.NewUploadPolicy(
		[]string{".png", ".pdf"},
		[]string{"image/png", "application/pdf"},
		50*1024*1024,
		10,
	)
}

func testLimits() app.NoteLimits {
	return app.NoteLimits{MaxTitleLength: 255, MaxContentLength: 1 << 20}
}

func newNoteUseCase(repo *mockNoteRepository, blobs portstorage.BlobStore, cache *stubCache) *app.NoteUseCase {
	return app.NewNoteUseCase(repo, blobs, testPolicy(), cache, testLimits(), 0)
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	userID := "user-1"

	t.Run("creates note with attachments", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		cache := newStubCache()
		uc := newNoteUseCase(repo, blobs, cache)

		files := []entities.FileUpload{
			upload("a.png", "image/png", 2*1024*1024),
			upload("b.pdf", "application/pdf", 1024*1024),
		}

		storedA := &entities.StoredBlob{StoredName: "att-1-aa-a.png", StoredPath: "att-1-aa-a.png", SizeBytes: 2 * 1024 * 1024, MimeType: "image/png"}
		storedB := &entities.StoredBlob{StoredName: "att-2-bb-b.pdf", StoredPath: "att-2-bb-b.pdf", SizeBytes: 1024 * 1024, MimeType: "application/pdf"}
		blobs.On("Put", mock.Anything, "a.png", "image/png", mock.Anything).Return(storedA, nil).Once()
		blobs.On("Put", mock.Anything, "b.pdf", "application/pdf", mock.Anything).Return(storedB, nil).Once()

		created := &entities.Note{ID: "note-1", UserID: userID, Title: "T", Content: "C"}
		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.UserID == userID && n.Title == "T" && n.Content == "C"
		})).Return(created, nil).Once()

		repo.On("AddAttachment", mock.Anything, mock.MatchedBy(func(a *entities.Attachment) bool {
			return a.NoteID == "note-1" && a.StoredPath == storedA.StoredPath && a.OriginalName == "a.png"
		})).Return(&entities.Attachment{ID: "att-row-1", NoteID: "note-1"}, nil).Once()
		repo.On("AddAttachment", mock.Anything, mock.MatchedBy(func(a *entities.Attachment) bool {
			return a.NoteID == "note-1" && a.StoredPath == storedB.StoredPath && a.OriginalName == "b.pdf"
		})).Return(&entities.Attachment{ID: "att-row-2", NoteID: "note-1"}, nil).Once()

		note, attachments, err := uc.CreateNote(ctx, userID, "T", "C", false, files)

		require.NoError(t, err)
		assert.Equal(t, "note-1", note.ID)
		assert.Len(t, attachments, 2)
		repo.AssertExpectations(t)
		blobs.AssertExpectations(t)
		blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing title writes nothing", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		files := []entities.FileUpload{
			upload("a.png", "image/png", 10),
			upload("b.pdf", "application/pdf", 10),
		}

		_, _, err := uc.CreateNote(ctx, userID, "   ", "content", false, files)

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrEmptyTitle)
		blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing content writes nothing", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		_, _, err := uc.CreateNote(ctx, userID, "T", "  \n ", false, nil)

		assert.ErrorIs(t, err, entities.ErrEmptyContent)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("title over limit writes nothing", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		_, _, err := uc.CreateNote(ctx, userID, strings.Repeat("t", 256), "content", false, nil)

		assert.ErrorIs(t, err, entities.ErrTitleTooLong)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("oversized upload writes nothing", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		files := []entities.FileUpload{upload("big.png", "image/png", 51*1024*1024)}

		_, _, err := uc.CreateNote(ctx, userID, "T", "C", false, files)

		assert.ErrorIs(t, err, entities.ErrFileTooLarge)
		blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("metadata failure removes every blob written by the request", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		files := []entities.FileUpload{
			upload("a.png", "image/png", 10),
			upload("b.pdf", "application/pdf", 10),
		}

		storedA := &entities.StoredBlob{StoredName: "a", StoredPath: "path-a"}
		storedB := &entities.StoredBlob{StoredName: "b", StoredPath: "path-b"}
		blobs.On("Put", mock.Anything, "a.png", mock.Anything, mock.Anything).Return(storedA, nil).Once()
		blobs.On("Put", mock.Anything, "b.pdf", mock.Anything, mock.Anything).Return(storedB, nil).Once()

		dbErr := errors.New("constraint violation")
		repo.On("Create", mock.Anything, mock.Anything).Return(nil, dbErr).Once()

		blobs.On("Delete", mock.Anything, "path-a").Return(nil).Once()
		blobs.On("Delete", mock.Anything, "path-b").Return(nil).Once()

		_, _, err := uc.CreateNote(ctx, userID, "T", "C", false, files)

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		blobs.AssertExpectations(t)
	})

	t.Run("attachment row failure removes note and blobs", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		files := []entities.FileUpload{upload("a.png", "image/png", 10)}

		stored := &entities.StoredBlob{StoredName: "a", StoredPath: "path-a"}
		blobs.On("Put", mock.Anything, "a.png", mock.Anything, mock.Anything).Return(stored, nil).Once()

		created := &entities.Note{ID: "note-1", UserID: userID}
		repo.On("Create", mock.Anything, mock.Anything).Return(created, nil).Once()

		rowErr := errors.New("insert failed")
		repo.On("AddAttachment", mock.Anything, mock.Anything).Return(nil, rowErr).Once()

		repo.On("Delete", mock.Anything, "note-1", userID).Return([]entities.AttachmentRef{}, nil).Once()
		blobs.On("Delete", mock.Anything, "path-a").Return(nil).Once()

		_, _, err := uc.CreateNote(ctx, userID, "T", "C", false, files)

		require.Error(t, err)
		assert.ErrorIs(t, err, rowErr)
		repo.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("blob write failure removes blobs already written", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		uc := newNoteUseCase(repo, blobs, newStubCache())

		files := []entities.FileUpload{
			upload("a.png", "image/png", 10),
			upload("b.pdf", "application/pdf", 10),
		}

		stored := &entities.StoredBlob{StoredName: "a", StoredPath: "path-a"}
		blobs.On("Put", mock.Anything, "a.png", mock.Anything, mock.Anything).Return(stored, nil).Once()

		diskErr := errors.New("disk full")
		blobs.On("Put", mock.Anything, "b.pdf", mock.Anything, mock.Anything).Return(nil, diskErr).Once()
		blobs.On("Delete", mock.Anything, "path-a").Return(nil).Once()

		_, _, err := uc.CreateNote(ctx, userID, "T", "C", false, files)

		require.Error(t, err)
		assert.ErrorIs(t, err, diskErr)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		blobs.AssertExpectations(t)
	})

	t.Run("successful create invalidates the public list cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		blobs := new(mockBlobStore)
		cache := newStubCache()
		uc := newNoteUseCase(repo, blobs, cache)

		created := &entities.Note{ID: "note-1", UserID: userID}
		repo.On("Create", mock.Anything, mock.Anything).Return(created, nil).Once()

		_, _, err := uc.CreateNote(ctx, userID, "T", "C", true, nil)

		require.NoError(t, err)
		assert.Contains(t, cache.deleted, "public_notes:"+userID)
	})
}
