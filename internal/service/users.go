package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"

	"mesto_service/internal/apperr"
	"mesto_service/internal/auth"
	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *service) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	const op = "service.SignUp"

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, apperr.Validation(msgPasswordTooLong)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.CreateUser(ctx, models.User{
		ID:           id.String(),
		Email:        in.Email,
		PasswordHash: passwordHash,
		Name:         orDefault(in.Name, models.DefaultName),
		About:        orDefault(in.About, models.DefaultAbout),
		Avatar:       orDefault(in.Avatar, models.DefaultAvatar),
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return models.User{}, apperr.Validation(msgEmailTaken)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SignIn returns a token for valid credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *service) SignIn(ctx context.Context, email, password string) (string, error) {
	const op = "service.SignIn"

	userCredentials, err := s.storage.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperr.Authentication(apperr.MsgBadCredentials, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if ok := auth.CheckPasswordHash(userCredentials.PasswordHash, password); !ok {
		return "", apperr.Authentication(apperr.MsgBadCredentials, fmt.Errorf("%s: wrong password", op))
	}

	token, err := s.tokens.Issue(userCredentials.UserID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

func userErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *service) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, userErr("service.GetUserByID", err)
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListUsers: %w", err)
	}
	return users, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, profile models.Profile) (models.User, error) {
	user, err := s.storage.UpdateProfile(ctx, userID, profile)
	if err != nil {
		return models.User{}, userErr("service.UpdateProfile", err)
	}
	return user, nil
}

func (s *service) UpdateAvatar(ctx context.Context, userID, avatar string) (models.User, error) {
	user, err := s.storage.UpdateAvatar(ctx, userID, avatar)
	if err != nil {
		return models.User{}, userErr("service.UpdateAvatar", err)
	}
	return user, nil
}
