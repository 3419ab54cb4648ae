// Package mongo stores users and cards as MongoDB documents.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"mesto_service/internal/models"
	"mesto_service/internal/storage"
)

const (
	usersCollection = "users"
	cardsCollection = "cards"
)

type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	cards  *mongo.Collection
}

func New(ctx context.Context, uri, dbName string) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	db := client.Database(dbName)
	s := &Storage{
		client: client,
		users:  db.Collection(usersCollection),
		cards:  db.Collection(cardsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users.email index: %w", err)
	}

	_, err = s.cards.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("cards.createdAt index: %w", err)
	}

	return nil
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// notFound maps mongo.ErrNoDocuments to storage.ErrNotFound.
func notFound(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Storage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.mongo.CreateUser"

	user.Email = strings.ToLower(user.Email)
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	const op = "storage.mongo.GetUserByID"

	var user models.User
	if err := s.users.FindOne(ctx, byID(userID)).Decode(&user); err != nil {
		return models.User{}, notFound(op, err)
	}

	return user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.mongo.ListUsers"

	cursor, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error) {
	const op = "storage.mongo.GetCredentialsByEmail"

	var doc struct {
		ID       string `bson:"_id"`
		Password string `bson:"password"`
	}
	err := s.users.FindOne(ctx,
		bson.D{{Key: "email", Value: strings.ToLower(email)}},
		options.FindOne().SetProjection(bson.D{{Key: "password", Value: 1}}),
	).Decode(&doc)
	if err != nil {
		return models.Credentials{}, notFound(op, err)
	}

	return models.Credentials{UserID: doc.ID, PasswordHash: doc.Password}, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, userID string, profile models.Profile) (models.User, error) {
	return s.updateUser(ctx, "storage.mongo.UpdateProfile", userID, bson.D{
		{Key: "name", Value: profile.Name},
		{Key: "about", Value: profile.About},
	})
}

func (s *Storage) UpdateAvatar(ctx context.Context, userID, avatar string) (models.User, error) {
	return s.updateUser(ctx, "storage.mongo.UpdateAvatar", userID, bson.D{
		{Key: "avatar", Value: avatar},
	})
}

func (s *Storage) updateUser(ctx context.Context, op, userID string, set bson.D) (models.User, error) {
	var user models.User
	err := s.users.FindOneAndUpdate(ctx,
		byID(userID),
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return models.User{}, notFound(op, err)
	}

	return user, nil
}

func (s *Storage) CreateCard(ctx context.Context, card models.Card) (models.Card, error) {
	const op = "storage.mongo.CreateCard"

	if card.Likes == nil {
		card.Likes = []string{}
	}
	if _, err := s.cards.InsertOne(ctx, card); err != nil {
		return models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

func (s *Storage) GetCardByID(ctx context.Context, cardID string) (models.Card, error) {
	const op = "storage.mongo.GetCardByID"

	var card models.Card
	if err := s.cards.FindOne(ctx, byID(cardID)).Decode(&card); err != nil {
		return models.Card{}, notFound(op, err)
	}

	return card, nil
}

func (s *Storage) ListCards(ctx context.Context) ([]models.Card, error) {
	const op = "storage.mongo.ListCards"

	cursor, err := s.cards.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cards := []models.Card{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cards, nil
}

func (s *Storage) DeleteCard(ctx context.Context, cardID, ownerID string) (models.Card, error) {
	const op = "storage.mongo.DeleteCard"

	var card models.Card
	err := s.cards.FindOneAndDelete(ctx, bson.D{
		{Key: "_id", Value: cardID},
		{Key: "owner", Value: ownerID},
	}).Decode(&card)
	if err != nil {
		return models.Card{}, notFound(op, err)
	}

	return card, nil
}

func (s *Storage) AddLike(ctx context.Context, cardID, userID string) (models.Card, error) {
	return s.updateCard(ctx, "storage.mongo.AddLike", cardID, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID}}},
	})
}

func (s *Storage) RemoveLike(ctx context.Context, cardID, userID string) (models.Card, error) {
	return s.updateCard(ctx, "storage.mongo.RemoveLike", cardID, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}},
	})
}

func (s *Storage) updateCard(ctx context.Context, op, cardID string, update bson.D) (models.Card, error) {
	var card models.Card
	err := s.cards.FindOneAndUpdate(ctx,
		byID(cardID),
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&card)
	if err != nil {
		return models.Card{}, notFound(op, err)
	}

	return card, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
