package noterepo_test

import (
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibenotes/internal/notes/adapters/postgres"
	"vibenotes/internal/notes/domain/entities"
)

func TestNoteRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("удаляет заметку и возвращает пути блобов", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT a.id, a.stored_path FROM attachments a .+").
			WithArgs("note-1", "user-1").
			WillReturnRows(
				pgxmock.NewRows([]string{"id", "stored_path"}).
					AddRow("att-1", "att-1.png").
					AddRow("att-2", "att-2.pdf"),
			)
		mock.ExpectExec("DELETE FROM notes WHERE id = .+").
			WithArgs("note-1", "user-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		repo := postgres.NewNoteRepository(mock)
		refs, err := repo.Delete(ctx, "note-1", "user-1")

		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "att-1.png", refs[0].StoredPath)
		assert.Equal(t, "att-2.pdf", refs[1].StoredPath)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("чужая заметка не удаляется", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT a.id, a.stored_path FROM attachments a .+").
			WithArgs("note-1", "stranger").
			WillReturnRows(pgxmock.NewRows([]string{"id", "stored_path"}))
		mock.ExpectExec("DELETE FROM notes WHERE id = .+").
			WithArgs("note-1", "stranger").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		repo := postgres.NewNoteRepository(mock)
		refs, err := repo.Delete(ctx, "note-1", "stranger")

		assert.Nil(t, refs)
		assert.ErrorIs(t, err, entities.ErrNoteNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ошибка удаления откатывает транзакцию", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT a.id, a.stored_path FROM attachments a .+").
			WithArgs("note-1", "user-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "stored_path"}))
		mock.ExpectExec("DELETE FROM notes WHERE id = .+").
			WithArgs("note-1", "user-1").
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		repo := postgres.NewNoteRepository(mock)
		_, err = repo.Delete(ctx, "note-1", "user-1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete note")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
