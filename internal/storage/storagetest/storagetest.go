// Package storagetest holds the behaviour every storage.Storage backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	return id.String()
}

func newUser(t *testing.T, email string) models.User {
	return models.User{
		ID:           newID(t),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Name:         models.DefaultName,
		About:        models.DefaultAbout,
		Avatar:       models.DefaultAvatar,
	}
}

// Run exercises st. It expects an empty store.
func Run(t *testing.T, st storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		user, err := st.CreateUser(ctx, newUser(t, "Alice@Example.com"))
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)

		_, err = st.CreateUser(ctx, newUser(t, "alice@example.com"))
		require.ErrorIs(t, err, storage.ErrEmailTaken)

		got, err := st.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)

		cred, err := st.GetCredentialsByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, cred.UserID)
		assert.Equal(t, "$2a$10$hash", cred.PasswordHash)

		_, err = st.GetCredentialsByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = st.GetUserByID(ctx, newID(t))
		require.ErrorIs(t, err, storage.ErrNotFound)

		updated, err := st.UpdateProfile(ctx, user.ID, models.Profile{Name: "Alice", About: "Photographer"})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.Name)
		assert.Equal(t, "Photographer", updated.About)
		assert.Equal(t, models.DefaultAvatar, updated.Avatar)

		updated, err = st.UpdateAvatar(ctx, user.ID, "https://example.com/a.png")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a.png", updated.Avatar)
		assert.Equal(t, "Alice", updated.Name)

		_, err = st.UpdateAvatar(ctx, newID(t), "https://example.com/a.png")
		require.ErrorIs(t, err, storage.ErrNotFound)

		users, err := st.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, user.ID, users[0].ID)
	})

	t.Run("cards", func(t *testing.T) {
		owner := newID(t)
		liker := newID(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		older, err := st.CreateCard(ctx, models.Card{
			ID: newID(t), Name: "Байкал", Link: "https://example.com/1.jpg", Owner: owner, CreatedAt: now.Add(-time.Minute),
		})
		require.NoError(t, err)
		assert.Empty(t, older.Likes)

		newer, err := st.CreateCard(ctx, models.Card{
			ID: newID(t), Name: "Эльбрус", Link: "https://example.com/2.jpg", Owner: owner, CreatedAt: now,
		})
		require.NoError(t, err)

		cards, err := st.ListCards(ctx)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, newer.ID, cards[0].ID)
		assert.Equal(t, older.ID, cards[1].ID)

		liked, err := st.AddLike(ctx, older.ID, liker)
		require.NoError(t, err)
		assert.Equal(t, []string{liker}, liked.Likes)

		liked, err = st.AddLike(ctx, older.ID, liker)
		require.NoError(t, err)
		assert.Equal(t, []string{liker}, liked.Likes, "likes behave as a set")

		unliked, err := st.RemoveLike(ctx, older.ID, liker)
		require.NoError(t, err)
		assert.Empty(t, unliked.Likes)

		_, err = st.AddLike(ctx, newID(t), liker)
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = st.DeleteCard(ctx, older.ID, liker)
		require.ErrorIs(t, err, storage.ErrNotFound, "only the owner can delete")

		deleted, err := st.DeleteCard(ctx, older.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, older.ID, deleted.ID)

		_, err = st.GetCardByID(ctx, older.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)

		got, err := st.GetCardByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Эльбрус", got.Name)
		assert.True(t, now.Equal(got.CreatedAt))
	})
}
