package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/questx-lab/signal/pkg/xredis"
)

type redisItem struct {
	value     string
	expiredAt time.Time
}

// MockRedisClient keeps keys in memory and honours TTLs. Any XxxFunc field
// replaces the in-memory behaviour of the corresponding method.
type MockRedisClient struct {
	PingFunc   func(ctx context.Context) error
	ExistFunc  func(ctx context.Context, key string) (bool, error)
	DelFunc    func(ctx context.Context, key ...string) (int64, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	GetObjFunc func(ctx context.Context, key string, v any) error

	mutex sync.Mutex
	items map[string]redisItem
	now   func() time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{items: make(map[string]redisItem), now: time.Now}
}

// Advance moves the clock of the mock forward, expiring keys.
func (m *MockRedisClient) Advance(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	current := m.now()
	m.now = func() time.Time { return current.Add(d) }
}

func (m *MockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}

	return nil
}

func (m *MockRedisClient) Close() error {
	return nil
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.load(key)
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) (int64, error) {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	n := int64(0)
	for _, key := range keys {
		if _, ok := m.load(key); ok {
			delete(m.items, key)
			n++
		}
	}

	return n, nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	item := redisItem{value: value}
	if ttl > 0 {
		item.expiredAt = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return m.Set(ctx, key, string(b), ttl)
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	item, ok := m.load(key)
	if !ok {
		return "", xredis.ErrNil
	}

	return item.value, nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	s, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

// load must be called with the mutex held.
func (m *MockRedisClient) load(key string) (redisItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return redisItem{}, false
	}

	if !item.expiredAt.IsZero() && !m.now().Before(item.expiredAt) {
		delete(m.items, key)
		return redisItem{}, false
	}

	return item, true
}
