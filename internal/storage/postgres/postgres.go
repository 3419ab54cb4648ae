// Package postgres is a storage.Storage on PostgreSQL. The schema is managed
// by goose migrations embedded in the binary.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"mesto_service/internal/models"
	"mesto_service/internal/storage"
	"mesto_service/internal/storage/postgres/migrations"
)

const (
	usersTable = "users"
	cardsTable = "cards"

	userColumns = "id, email, password_hash, name, about, avatar"
	cardColumns = "id, name, link, owner, likes, created_at"

	uniqueViolation = "23505"
)

type Storage struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	if err := RunMigrations(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := pgxpool.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		db: conn,
	}, nil
}

func RunMigrations(ctx context.Context, dbURL string) error {
	const op = "storage.postgres.RunMigrations"

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Avatar)
	return u, err
}

func scanCard(row pgx.Row) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.Name, &c.Link, &c.Owner, &c.Likes, &c.CreatedAt)
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return c, err
}

func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (p *Storage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.postgres.CreateUser"

	query := fmt.Sprintf("INSERT INTO %s(%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s;", usersTable, userColumns, userColumns)

	created, err := scanUser(p.db.QueryRow(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.About, user.Avatar))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (p *Storage) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	const op = "storage.postgres.GetUserByID"

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1;", userColumns, usersTable)

	user, err := scanUser(p.db.QueryRow(ctx, query, userID))
	if err != nil {
		return models.User{}, wrap(op, err)
	}

	return user, nil
}

func (p *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.ListUsers"

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY email;", userColumns, usersTable)

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return users, nil
}

func (p *Storage) GetCredentialsByEmail(ctx context.Context, email string) (models.Credentials, error) {
	const op = "storage.postgres.GetCredentialsByEmail"

	var cred models.Credentials
	query := fmt.Sprintf("SELECT id, password_hash FROM %s WHERE email=$1", usersTable)

	err := p.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(&cred.UserID, &cred.PasswordHash)
	if err != nil {
		return models.Credentials{}, wrap(op, err)
	}

	return cred, nil
}

func (p *Storage) UpdateProfile(ctx context.Context, userID string, profile models.Profile) (models.User, error) {
	const op = "storage.postgres.UpdateProfile"

	query := fmt.Sprintf("UPDATE %s SET name=$1, about=$2 WHERE id=$3 RETURNING %s", usersTable, userColumns)

	user, err := scanUser(p.db.QueryRow(ctx, query, profile.Name, profile.About, userID))
	if err != nil {
		return models.User{}, wrap(op, err)
	}

	return user, nil
}

func (p *Storage) UpdateAvatar(ctx context.Context, userID, avatar string) (models.User, error) {
	const op = "storage.postgres.UpdateAvatar"

	query := fmt.Sprintf("UPDATE %s SET avatar=$1 WHERE id=$2 RETURNING %s", usersTable, userColumns)

	user, err := scanUser(p.db.QueryRow(ctx, query, avatar, userID))
	if err != nil {
		return models.User{}, wrap(op, err)
	}

	return user, nil
}

func (p *Storage) CreateCard(ctx context.Context, card models.Card) (models.Card, error) {
	const op = "storage.postgres.CreateCard"

	if card.Likes == nil {
		card.Likes = []string{}
	}
	query := fmt.Sprintf("INSERT INTO %s(%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s", cardsTable, cardColumns, cardColumns)

	created, err := scanCard(p.db.QueryRow(ctx, query,
		card.ID, card.Name, card.Link, card.Owner, card.Likes, card.CreatedAt))
	if err != nil {
		return models.Card{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (p *Storage) GetCardByID(ctx context.Context, cardID string) (models.Card, error) {
	const op = "storage.postgres.GetCardByID"

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1", cardColumns, cardsTable)

	card, err := scanCard(p.db.QueryRow(ctx, query, cardID))
	if err != nil {
		return models.Card{}, wrap(op, err)
	}

	return card, nil
}

func (p *Storage) ListCards(ctx context.Context) ([]models.Card, error) {
	const op = "storage.postgres.ListCards"

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC", cardColumns, cardsTable)

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s (rows): %w", op, err)
	}

	return cards, nil
}

func (p *Storage) DeleteCard(ctx context.Context, cardID, ownerID string) (models.Card, error) {
	const op = "storage.postgres.DeleteCard"

	query := fmt.Sprintf("DELETE FROM %s WHERE id=$1 AND owner=$2 RETURNING %s", cardsTable, cardColumns)

	card, err := scanCard(p.db.QueryRow(ctx, query, cardID, ownerID))
	if err != nil {
		return models.Card{}, wrap(op, err)
	}

	return card, nil
}

func (p *Storage) AddLike(ctx context.Context, cardID, userID string) (models.Card, error) {
	const op = "storage.postgres.AddLike"

	query := fmt.Sprintf(`UPDATE %s
	SET likes = CASE WHEN $2::text = ANY(likes) THEN likes ELSE array_append(likes, $2::text) END
	WHERE id=$1 RETURNING %s`, cardsTable, cardColumns)

	card, err := scanCard(p.db.QueryRow(ctx, query, cardID, userID))
	if err != nil {
		return models.Card{}, wrap(op, err)
	}

	return card, nil
}

func (p *Storage) RemoveLike(ctx context.Context, cardID, userID string) (models.Card, error) {
	const op = "storage.postgres.RemoveLike"

	query := fmt.Sprintf("UPDATE %s SET likes = array_remove(likes, $2::text) WHERE id=$1 RETURNING %s", cardsTable, cardColumns)

	card, err := scanCard(p.db.QueryRow(ctx, query, cardID, userID))
	if err != nil {
		return models.Card{}, wrap(op, err)
	}

	return card, nil
}

func (p *Storage) Close(context.Context) error {
	p.db.Close()
	return nil
}
