package authusecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vibenotes/internal/notes/app"
	"vibenotes/internal/notes/domain/entities"
)

func newAuthUseCase(repo *mockUserRepository, passwords *mockPasswordService, tokens *mockTokenService) *app.AuthUseCase {
	return app.NewAuthUseCase(repo, passwords, tokens)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers user and issues token", func(t *testing.T) {
		repo := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		uc := newAuthUseCase(repo, passwords, tokens)

		passwords.On("Hash", mock.Anything, "secret123").Return("hashed", nil).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Username == "alice" && u.PasswordHash == "hashed"
		})).Return(&entities.User{ID: "user-1", Username: "alice"}, nil).Once()

		expiresAt := time.Now().Add(time.Hour)
		tokens.On("GenerateAccessToken", mock.Anything, "user-1", "alice").
			Return("token", expiresAt, nil).Once()

		pair, err := uc.Register(ctx, "alice", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "user-1", pair.UserID)
		assert.Equal(t, "token", pair.AccessToken)
		assert.Equal(t, expiresAt, pair.ExpiresAt)
		repo.AssertExpectations(t)
	})

	t.Run("taken username", func(t *testing.T) {
		repo := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		uc := newAuthUseCase(repo, passwords, tokens)

		passwords.On("Hash", mock.Anything, mock.Anything).Return("hashed", nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).
			Return(nil, entities.ErrUsernameTaken).Once()

		_, err := uc.Register(ctx, "alice", "secret123")

		assert.ErrorIs(t, err, entities.ErrUsernameTaken)
		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("username out of bounds", func(t *testing.T) {
		repo := new(mockUserRepository)
		uc := newAuthUseCase(repo, new(mockPasswordService), new(mockTokenService))

		_, err := uc.Register(ctx, "ab", "secret123")
		assert.ErrorIs(t, err, entities.ErrUsernameLength)

		_, err = uc.Register(ctx, string(make([]byte, 51)), "secret123")
		assert.ErrorIs(t, err, entities.ErrUsernameLength)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("weak passwords are rejected before hashing", func(t *testing.T) {
		passwords := new(mockPasswordService)
		uc := newAuthUseCase(new(mockUserRepository), passwords, new(mockTokenService))

		for _, password := range []string{"short1", "onlyletters", "12345678"} {
			_, err := uc.Register(ctx, "alice", password)
			assert.ErrorIs(t, err, entities.ErrPasswordTooWeak, "password %q", password)
		}

		passwords.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		repo := new(mockUserRepository)
		passwords := new(mockPasswordService)
		tokens := new(mockTokenService)
		uc := newAuthUseCase(repo, passwords, tokens)

		user := &entities.User{ID: "user-1", Username: "alice", PasswordHash: "hashed"}
		repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil).Once()
		passwords.On("Verify", mock.Anything, "secret123", "hashed").Return(true, nil).Once()
		tokens.On("GenerateAccessToken", mock.Anything, "user-1", "alice").
			Return("token", time.Now().Add(time.Hour), nil).Once()

		pair, err := uc.Login(ctx, "alice", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "token", pair.AccessToken)
	})

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		repo := new(mockUserRepository)
		passwords := new(mockPasswordService)
		uc := newAuthUseCase(repo, passwords, new(mockTokenService))

		repo.On("FindByUsername", mock.Anything, "ghost").
			Return(nil, entities.ErrUserNotFound).Once()

		_, errUnknown := uc.Login(ctx, "ghost", "secret123")

		user := &entities.User{ID: "user-1", Username: "alice", PasswordHash: "hashed"}
		repo.On("FindByUsername", mock.Anything, "alice").Return(user, nil).Once()
		passwords.On("Verify", mock.Anything, "wrong1234", "hashed").Return(false, nil).Once()

		_, errWrong := uc.Login(ctx, "alice", "wrong1234")

		assert.ErrorIs(t, errUnknown, entities.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, entities.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}
