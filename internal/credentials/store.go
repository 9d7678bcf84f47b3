// Package credentials persists the single API credential used for remote calls.
package credentials

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"seller-assistant/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// Store saves and loads the API key.
type Store interface {
	Save(ctx context.Context, apiKey string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Status reports whether a credential is configured without revealing it.
type Status struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}

// ErrNotFound is returned by Load when no key has been saved.
var ErrNotFound = stderrors.New("credential not found")

// RedisStore keeps the key under a single Redis string key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Save(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.NewInvalidInputError("api key must not be empty")
	}
	if err := s.rdb.Set(ctx, s.key, apiKey, 0).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return val, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store for the CLI and tests.
type MemoryStore struct {
	mu  sync.RWMutex
	key string
}

func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{key: strings.TrimSpace(initial)}
}

func (s *MemoryStore) Save(_ context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.NewInvalidInputError("api key must not be empty")
	}
	s.mu.Lock()
	s.key = apiKey
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return "", ErrNotFound
	}
	return s.key, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()
	return nil
}

// GetStatus loads the key and reports it in masked form.
func GetStatus(ctx context.Context, s Store) (Status, error) {
	key, err := s.Load(ctx)
	if stderrors.Is(err, ErrNotFound) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Configured: true, Masked: Mask(key)}, nil
}

// Resolve picks the key for a request: an explicit key wins over the stored one.
// A missing key is a CREDENTIAL_INVALID error.
func Resolve(ctx context.Context, s Store, explicit string) (string, error) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, nil
	}
	if s == nil {
		return "", errors.NewCredentialError("no api key configured")
	}
	key, err := s.Load(ctx)
	if stderrors.Is(err, ErrNotFound) {
		return "", errors.NewCredentialError("no api key configured")
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

// Mask keeps the first three and last four characters.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-7) + key[len(key)-4:]
}
