// Package session issues and tracks admin session tokens. Tokens are HS256
// JWTs whose jti is recorded in the store; revocation drops the jti, so a
// token is only honored while its jti is present and unexpired.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "admin:session:"

var ErrInvalidToken = errors.New("invalid session token")

// Store tracks active session IDs. Backed by Redis when a client is
// available, otherwise by an in-process map with the same TTL semantics.
type Store struct {
	client *redis.Client

	mu  sync.Mutex
	mem map[string]time.Time
}

// NewStore creates a session store. client may be nil.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		mem:    make(map[string]time.Time),
	}
}

// Record marks a session ID as active for ttl.
func (s *Store) Record(ctx context.Context, jti string, ttl time.Duration) error {
	if s.client != nil {
		return s.client.Set(ctx, redisKeyPrefix+jti, "1", ttl).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[jti] = time.Now().Add(ttl)
	return nil
}

// Active reports whether a session ID is still valid. Store errors count as
// inactive so a degraded backend fails closed.
func (s *Store) Active(ctx context.Context, jti string) bool {
	if s.client != nil {
		n, err := s.client.Exists(ctx, redisKeyPrefix+jti).Result()
		return err == nil && n > 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.mem[jti]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.mem, jti)
		return false
	}
	return true
}

// Revoke drops a session ID, invalidating its token immediately.
func (s *Store) Revoke(ctx context.Context, jti string) error {
	if s.client != nil {
		return s.client.Del(ctx, redisKeyPrefix+jti).Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mem, jti)
	return nil
}

// Issue creates a signed admin token, records its jti, and returns both.
func (s *Store) Issue(ctx context.Context, secret string, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	if err := s.Record(ctx, jti, ttl); err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// Verify parses a token, checks its signature and expiry, and confirms the
// jti is still active. Returns the jti.
func Verify(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
