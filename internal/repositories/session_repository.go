package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/kawaii-shop/backend/internal/config"
	"github.com/kawaii-shop/backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps opaque bearer tokens in Redis. Each token maps
// to a user id with the configured TTL, and a per-user set tracks every
// live token so logout can revoke them all at once.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	client *redis.Client
	cfg    *config.Config
}

func NewSessionRepo(client *redis.Client, cfg *config.Config) SessionRepository {
	return &sessionRepository{client: client, cfg: cfg}
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID uuid.UUID) string {
	return "user_sessions:" + userID.String()
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	key := sessionKey(session.Token)

	pipe := r.client.Pipeline()

	pipe.Set(ctx, key, session.UserID.String(), r.cfg.Session.TTL)

	// The tracking set outlives individual tokens by the same TTL. Every
	// new login refreshes it, so an abandoned set eventually expires too.
	setKey := userSessionsKey(session.UserID)
	pipe.SAdd(ctx, setKey, session.Token)
	pipe.Expire(ctx, setKey, r.cfg.Session.TTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, ErrSessionNotFound
		}

		return uuid.Nil, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session entry: %w", err)
	}

	return userID, nil
}

func (r *sessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	setKey := userSessionsKey(userID)

	tokens, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
	}

	keys = append(keys, setKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}
