package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCache возвращается при ошибках хранилища кэша
var ErrCache = errors.New("token.cache: storage error")

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// RealClock реальное время
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory кэш значений с явным временем истечения в памяти процесса
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	clock Clock
}

// NewMemory создает кэш в памяти; clock == nil означает реальное время
func NewMemory(clock Clock) *Memory {
	if clock == nil {
		clock = RealClock{}
	}
	return &Memory{items: make(map[string]entry), clock: clock}
}

// Get возвращает значение, если оно есть и ещё не истекло
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !m.clock.Now().Before(e.expiresAt) {
		delete(m.items, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set сохраняет значение до expiresAt; уже истекшее значение не сохраняется
func (m *Memory) Set(_ context.Context, key, value string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.clock.Now().Before(expiresAt) {
		delete(m.items, key)
		return nil
	}
	m.items[key] = entry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Redis кэш в Redis; срок жизни задаётся TTL ключа, поэтому значение видно всем репликам
type Redis struct {
	client *redis.Client
	prefix string
	clock  Clock
}

// NewRedis создает кэш поверх клиента go-redis
func NewRedis(client *redis.Client, prefix string, clock Clock) *Redis {
	if clock == nil {
		clock = RealClock{}
	}
	return &Redis{client: client, prefix: prefix, clock: clock}
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrCache, addr, err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return r.Invalidate(ctx, key)
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCache, err)
	}
	return nil
}
