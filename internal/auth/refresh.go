package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshTokenKeyPrefix = "refresh_token:"

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore keeps refresh tokens in Redis, keyed by token and
// holding the owner's user id until the TTL expires.
type RefreshTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshTokenStore(rdb *redis.Client, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{rdb: rdb, ttl: ttl}
}

func (s *RefreshTokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *RefreshTokenStore) Issue(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, refreshTokenKeyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

// Consume reads and deletes the token in a single GETDEL, so a token can
// only ever be redeemed once.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string) (int, error) {
	userID, err := s.rdb.GetDel(ctx, refreshTokenKeyPrefix+token).Int()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRefreshTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read refresh token: %w", err)
	}
	return userID, nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, refreshTokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
