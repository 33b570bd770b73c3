package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"segmentReco/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// TokenRepository keeps issued JWTs so they can be revoked before they expire.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func tokenKey(token string) string {
	return "session:token:" + token
}

func (r *TokenRepository) StoreToken(ctx context.Context, token string, s domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, tokenKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// ValidateToken returns the user id the token was issued to.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return "", fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return s.UserID, nil
}

// DeleteToken revokes a token. Deleting an unknown token is not an error.
func (r *TokenRepository) DeleteToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
