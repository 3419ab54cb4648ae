// Package memory is an in-process storage.Storage used by tests and by the
// "memory" driver. Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

type Storage struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	cards   map[string]models.Card
}

func New() *Storage {
	return &Storage{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		cards:   make(map[string]models.Card),
	}
}

func (s *Storage) CreateUser(_ context.Context, user models.User) (models.User, error) {
	const op = "storage.memory.CreateUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}

	user.Email = email
	s.users[user.ID] = user
	s.byEmail[email] = user.ID

	return user, nil
}

func (s *Storage) GetUserByID(_ context.Context, userID string) (models.User, error) {
	const op = "storage.memory.GetUserByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return user, nil
}

func (s *Storage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })

	return users, nil
}

func (s *Storage) GetCredentialsByEmail(_ context.Context, email string) (models.Credentials, error) {
	const op = "storage.memory.GetCredentialsByEmail"

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.Credentials{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return models.Credentials{UserID: id, PasswordHash: s.users[id].PasswordHash}, nil
}

func (s *Storage) UpdateProfile(_ context.Context, userID string, profile models.Profile) (models.User, error) {
	return s.updateUser("storage.memory.UpdateProfile", userID, func(u *models.User) {
		u.Name = profile.Name
		u.About = profile.About
	})
}

func (s *Storage) UpdateAvatar(_ context.Context, userID, avatar string) (models.User, error) {
	return s.updateUser("storage.memory.UpdateAvatar", userID, func(u *models.User) {
		u.Avatar = avatar
	})
}

func (s *Storage) updateUser(op, userID string, apply func(*models.User)) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	apply(&user)
	s.users[userID] = user

	return user, nil
}

func (s *Storage) CreateCard(_ context.Context, card models.Card) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if card.Likes == nil {
		card.Likes = []string{}
	}
	s.cards[card.ID] = copyCard(card)

	return card, nil
}

func (s *Storage) GetCardByID(_ context.Context, cardID string) (models.Card, error) {
	const op = "storage.memory.GetCardByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[cardID]
	if !ok {
		return models.Card{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return copyCard(card), nil
}

func (s *Storage) ListCards(_ context.Context) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]models.Card, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, copyCard(c))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].CreatedAt.After(cards[j].CreatedAt) })

	return cards, nil
}

func (s *Storage) DeleteCard(_ context.Context, cardID, ownerID string) (models.Card, error) {
	const op = "storage.memory.DeleteCard"

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardID]
	if !ok || card.Owner != ownerID {
		return models.Card{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(s.cards, cardID)

	return card, nil
}

func (s *Storage) AddLike(_ context.Context, cardID, userID string) (models.Card, error) {
	return s.updateCard("storage.memory.AddLike", cardID, func(c *models.Card) {
		if !slices.Contains(c.Likes, userID) {
			c.Likes = append(c.Likes, userID)
		}
	})
}

func (s *Storage) RemoveLike(_ context.Context, cardID, userID string) (models.Card, error) {
	return s.updateCard("storage.memory.RemoveLike", cardID, func(c *models.Card) {
		c.Likes = slices.DeleteFunc(c.Likes, func(id string) bool { return id == userID })
	})
}

func (s *Storage) updateCard(op, cardID string, apply func(*models.Card)) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardID]
	if !ok {
		return models.Card{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	card = copyCard(card)
	apply(&card)
	s.cards[cardID] = card

	return copyCard(card), nil
}

func (s *Storage) Close(context.Context) error {
	return nil
}

// copyCard detaches the likes slice from the stored value.
func copyCard(c models.Card) models.Card {
	c.Likes = append([]string{}, c.Likes...)
	return c
}
