package service

import (
	"context"
	"time"

	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

const (
	msgUserNotFound = "Пользователь не найден"
	msgCardNotFound = "Карточка не найдена"
	msgEmailTaken   = "Пользователь с таким email уже существует"

	msgPasswordTooLong = "Пароль не может быть длиннее 72 байт"
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	About    string
	Avatar   string
}

type Service interface {
	SignUp(ctx context.Context, in SignUpInput) (models.User, error)
	SignIn(ctx context.Context, email, password string) (string, error)

	GetUserByID(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatar string) (models.User, error)

	ListCards(ctx context.Context) ([]models.Card, error)
	CreateCard(ctx context.Context, ownerID, name, link string) (models.Card, error)
	DeleteCard(ctx context.Context, cardID, userID string) (models.Card, error)
	LikeCard(ctx context.Context, cardID, userID string) (models.Card, error)
	UnlikeCard(ctx context.Context, cardID, userID string) (models.Card, error)
}

type service struct {
	storage storage.Storage
	tokens  TokenIssuer
	now     func() time.Time
}

func NewService(st storage.Storage, tokens TokenIssuer) *service {
	return &service{
		storage: st,
		tokens:  tokens,
		now:     time.Now,
	}
}
