package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore guarda tokens opacos con TTL. Lo comparten las sesiones de
// servidor y el registro de refresh tokens, cada uno con su prefijo.
type TokenStore interface {
	Store(token, value string, ttl time.Duration) error
	Get(token string) (string, bool, error)
	Revoke(token string) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryTokenStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

// NewMemoryTokenStore crea un store en memoria para desarrollo y tests.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{
		items: make(map[string]memoryEntry),
	}
}

func (s *memoryTokenStore) Store(token, value string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = memoryEntry{
		value:     value,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryTokenStore) Get(token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[token]
	if !ok {
		return "", false, nil
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, token)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (s *memoryTokenStore) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

type redisTokenStore struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenStore crea un store respaldado por Redis bajo un prefijo.
func NewRedisTokenStore(client *redis.Client, prefix string) TokenStore {
	if client == nil {
		return nil
	}
	return &redisTokenStore{
		client: client,
		prefix: prefix,
	}
}

func (s *redisTokenStore) Store(token, value string, ttl time.Duration) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+token, value, ttl).Err()
}

func (s *redisTokenStore) Get(token string) (string, bool, error) {
	if strings.TrimSpace(token) == "" {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	value, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *redisTokenStore) Revoke(token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Del(ctx, s.prefix+token).Err()
}
