package noteusecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibenotes/internal/notes/domain/entities"
)

func TestListPublicNotes(t *testing.T) {
	ctx := context.Background()
	targetID := "owner"
	key := "public_notes:" + targetID

	t.Run("cache miss hits the repository and fills the cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		cache := newStubCache()
		uc := newNoteUseCase(repo, new(mockBlobStore), cache)

		notes := []*entities.Note{{ID: "note-1", UserID: targetID, Title: "T", IsPublic: true}}
		repo.On("ListPublicByUser", mock.Anything, targetID).Return(notes, nil).Once()

		got, err := uc.ListPublicNotes(ctx, targetID)

		require.NoError(t, err)
		assert.Len(t, got, 1)

		cached, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.NotEmpty(t, cached)
	})

	t.Run("cache hit never touches the repository", func(t *testing.T) {
		repo := new(mockNoteRepository)
		cache := newStubCache()
		uc := newNoteUseCase(repo, new(mockBlobStore), cache)

		notes := []*entities.Note{{ID: "note-1", UserID: targetID, Title: "cached", IsPublic: true}}
		encoded, err := json.Marshal(notes)
		require.NoError(t, err)
		require.NoError(t, cache.Set(ctx, key, string(encoded), time.Minute))

		got, err := uc.ListPublicNotes(ctx, targetID)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "cached", got[0].Title)
		repo.AssertNotCalled(t, "ListPublicByUser", mock.Anything, mock.Anything)
	})

	t.Run("garbage in the cache falls back to the repository", func(t *testing.T) {
		repo := new(mockNoteRepository)
		cache := newStubCache()
		uc := newNoteUseCase(repo, new(mockBlobStore), cache)

		require.NoError(t, cache.Set(ctx, key, "{not json", time.Minute))

		notes := []*entities.Note{{ID: "note-1", UserID: targetID, IsPublic: true}}
		repo.On("ListPublicByUser", mock.Anything, targetID).Return(notes, nil).Once()

		got, err := uc.ListPublicNotes(ctx, targetID)

		require.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("mutation invalidates the cached list", func(t *testing.T) {
		repo := new(mockNoteRepository)
		cache := newStubCache()
		uc := newNoteUseCase(repo, new(mockBlobStore), cache)

		notes := []*entities.Note{{ID: "note-1", UserID: targetID, IsPublic: true}}
		repo.On("ListPublicByUser", mock.Anything, targetID).Return(notes, nil).Twice()
		repo.On("Delete", mock.Anything, "note-1", targetID).
			Return([]entities.AttachmentRef{}, nil).Once()

		_, err := uc.ListPublicNotes(ctx, targetID)
		require.NoError(t, err)

		require.NoError(t, uc.DeleteNote(ctx, targetID, "note-1"))
		assert.Contains(t, cache.deleted, key)

		// Следующее чтение идет мимо сброшенного кэша в репозиторий.
		_, err = uc.ListPublicNotes(ctx, targetID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty public list is served", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := newNoteUseCase(repo, new(mockBlobStore), newStubCache())

		repo.On("ListPublicByUser", mock.Anything, "nobody").
			Return([]*entities.Note{}, nil).Once()

		got, err := uc.ListPublicNotes(ctx, "nobody")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("returns owner notes", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := newNoteUseCase(repo, new(mockBlobStore), newStubCache())

		notes := []*entities.Note{
			{ID: "note-2", UserID: "owner"},
			{ID: "note-1", UserID: "owner"},
		}
		repo.On("ListByOwner", mock.Anything, "owner").Return(notes, nil).Once()

		got, err := uc.ListNotes(ctx, "owner")

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
