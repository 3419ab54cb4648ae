package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesto_service/internal/apperr"
	"mesto_service/internal/auth"
	"mesto_service/internal/models"
	"mesto_service/internal/storage"
	"mesto_service/internal/storage/memory"
)

type failingIssuer struct{}

func (failingIssuer) Issue(string) (string, error) { return "", errors.New("signer unavailable") }

// brokenStorage fails every credentials lookup with a driver error.
type brokenStorage struct {
	storage.Storage
}

func (brokenStorage) GetCredentialsByEmail(context.Context, string) (models.Credentials, error) {
	return models.Credentials{}, errors.New("connection reset by peer")
}

func newTestService(t *testing.T) (*service, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	return NewService(memory.New(), tokens), tokens
}

func TestSignUp_AppliesDefaultsAndHashes(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.DefaultName, user.Name)
	assert.Equal(t, models.DefaultAbout, user.About)
	assert.Equal(t, models.DefaultAvatar, user.Avatar)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, auth.CheckPasswordHash(user.PasswordHash, "secret1"))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "A@B.com", Password: "other"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSignUp_PasswordTooLongIsValidationError(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@b.com", Password: strings.Repeat("p", 73)})
	require.Error(t, err)

	status, message := apperr.Response(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, msgPasswordTooLong, message)
}

func TestSignIn(t *testing.T) {
	t.Parallel()
	svc, tokens := newTestService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "secret1", Name: "Anna"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)

	token, err := svc.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, wrongPassErr := svc.SignIn(ctx, "a@b.com", "nope")
	_, unknownErr := svc.SignIn(ctx, "x@b.com", "secret1")

	for _, err := range []error{wrongPassErr, unknownErr} {
		status, message := apperr.Response(err)
		assert.Equal(t, 401, status)
		assert.Equal(t, apperr.MsgBadCredentials, message)
	}
}

func TestSignIn_InfrastructureErrorsAreInternal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewService(brokenStorage{Storage: memory.New()}, failingIssuer{})
	_, err := svc.SignIn(ctx, "a@b.com", "secret1")
	require.Error(t, err)
	status, _ := apperr.Response(err)
	assert.Equal(t, 500, status)

	st := memory.New()
	svc = NewService(st, failingIssuer{})
	_, err = svc.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@b.com", "secret1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "signer unavailable")
	status, _ = apperr.Response(err)
	assert.Equal(t, 500, status)
}

func TestUsers_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetUserByID(ctx, "9b2e0f8e-8b0c-4d43-9d6e-3a4b4c0e1f00")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.UpdateProfile(ctx, "missing", models.Profile{Name: "n", About: "a"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.UpdateAvatar(ctx, "missing", "https://example.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCards_Lifecycle(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	card, err := svc.CreateCard(ctx, "owner", "Архыз", "https://example.com/arkhyz.jpg")
	require.NoError(t, err)
	assert.Equal(t, "owner", card.Owner)
	assert.Equal(t, fixed, card.CreatedAt)
	assert.Empty(t, card.Likes)

	card, err = svc.LikeCard(ctx, card.ID, "fan")
	require.NoError(t, err)
	assert.Equal(t, []string{"fan"}, card.Likes)

	card, err = svc.UnlikeCard(ctx, card.ID, "fan")
	require.NoError(t, err)
	assert.Empty(t, card.Likes)

	_, err = svc.DeleteCard(ctx, card.ID, "fan")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.ErrorIs(t, err, errNotCardOwner)

	_, err = svc.DeleteCard(ctx, card.ID, "owner")
	require.NoError(t, err)

	_, err = svc.DeleteCard(ctx, card.ID, "owner")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NotErrorIs(t, err, errNotCardOwner)

	_, err = svc.LikeCard(ctx, card.ID, "fan")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	cards, err := svc.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
