package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"mesto_service/internal/apperr"
	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

var errNotCardOwner = errors.New("card belongs to another user")

func cardErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(msgCardNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *service) ListCards(ctx context.Context) ([]models.Card, error) {
	cards, err := s.storage.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListCards: %w", err)
	}
	return cards, nil
}

func (s *service) CreateCard(ctx context.Context, ownerID, name, link string) (models.Card, error) {
	const op = "service.CreateCard"

	id, err := uuid.NewV4()
	if err != nil {
		return models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	card, err := s.storage.CreateCard(ctx, models.Card{
		ID:        id.String(),
		Name:      name,
		Link:      link,
		Owner:     ownerID,
		Likes:     []string{},
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

// DeleteCard removes a card owned by userID. A card owned by someone else
// is reported to the client exactly like a missing one; only the logged
// cause tells them apart.
func (s *service) DeleteCard(ctx context.Context, cardID, userID string) (models.Card, error) {
	const op = "service.DeleteCard"

	card, err := s.storage.GetCardByID(ctx, cardID)
	if err != nil {
		return models.Card{}, cardErr(op, err)
	}
	if card.Owner != userID {
		return models.Card{}, &apperr.Error{
			Kind:    apperr.KindNotFound,
			Message: msgCardNotFound,
			Err:     fmt.Errorf("%s: %s: %w", op, cardID, errNotCardOwner),
		}
	}

	// Owner-filtered, so a concurrent delete still ends in not found.
	card, err = s.storage.DeleteCard(ctx, cardID, userID)
	if err != nil {
		return models.Card{}, cardErr(op, err)
	}
	return card, nil
}

func (s *service) LikeCard(ctx context.Context, cardID, userID string) (models.Card, error) {
	card, err := s.storage.AddLike(ctx, cardID, userID)
	if err != nil {
		return models.Card{}, cardErr("service.LikeCard", err)
	}
	return card, nil
}

func (s *service) UnlikeCard(ctx context.Context, cardID, userID string) (models.Card, error) {
	card, err := s.storage.RemoveLike(ctx, cardID, userID)
	if err != nil {
		return models.Card{}, cardErr("service.UnlikeCard", err)
	}
	return card, nil
}
