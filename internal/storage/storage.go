package storage

import (
	"context"
	"errors"

	"mesto_service/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already taken")
)

type Storage interface {

	// Пользователи и аутентификация
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error)
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatar string) (models.User, error)

	// Карточки
	CreateCard(ctx context.Context, card models.Card) (models.Card, error)
	GetCardByID(ctx context.Context, cardID string) (models.Card, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	DeleteCard(ctx context.Context, cardID, ownerID string) (models.Card, error)
	AddLike(ctx context.Context, cardID, userID string) (models.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (models.Card, error)

	Close(ctx context.Context) error
}
