package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilv/ai-chat-relay/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// PostgresStore handles user and chat CRUD against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and chats tables if they don't exist.
// chats.user_id is intentionally not a foreign key.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         VARCHAR(255) PRIMARY KEY,
			email      VARCHAR(255) UNIQUE NOT NULL,
			name       VARCHAR(255) NOT NULL DEFAULT '',
			role       VARCHAR(50)  NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS chats (
			id         UUID PRIMARY KEY,
			user_id    VARCHAR(255) NOT NULL,
			message    TEXT NOT NULL,
			reply      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats (user_id, created_at);
	`)
	return err
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, role, created_at, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, id, email, name, role string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, name, role, created_at, updated_at`,
		id, email, name, role,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateChat(ctx context.Context, userID, message, reply string) (*models.Chat, error) {
	var c models.Chat
	err := s.pool.QueryRow(ctx,
		`INSERT INTO chats (id, user_id, message, reply)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, message, reply, created_at, updated_at`,
		uuid.New().String(), userID, message, reply,
	).Scan(&c.ID, &c.UserID, &c.Message, &c.Reply, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &c, nil
}

// RecentChats returns the user's most recent exchanges, newest first.
func (s *PostgresStore) RecentChats(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, message, reply, created_at, updated_at
		 FROM chats WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Message, &c.Reply, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("recent chats: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// ChatsByUser returns every exchange for the user, projected to message and reply.
func (s *PostgresStore) ChatsByUser(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT message, reply FROM chats WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("chats by user: %w", err)
	}
	defer rows.Close()

	var items []models.HistoryItem
	for rows.Next() {
		var it models.HistoryItem
		if err := rows.Scan(&it.Message, &it.Reply); err != nil {
			return nil, fmt.Errorf("chats by user: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
