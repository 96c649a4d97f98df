package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time // 零值表示不过期
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Memory 进程内 LRU 缓存，单实例部署或测试使用
type Memory struct {
	mu    sync.Mutex
	items *lru.Cache[string, memoryItem]
	now   func() time.Time
}

// NewMemory 创建容量为 size 的内存缓存
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = 1024
	}
	items, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &Memory{items: items, now: time.Now}, nil
}

func (m *Memory) lookup(key string) (memoryItem, bool) {
	item, ok := m.items.Get(key)
	if !ok {
		return memoryItem{}, false
	}
	if item.expired(m.now()) {
		m.items.Remove(key)
		return memoryItem{}, false
	}
	return item, true
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	item, ok := m.lookup(key)
	m.mu.Unlock()
	if !ok {
		record("get", "miss")
		return nil, false
	}
	record("get", "hit")
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items.Add(key, item)
	m.mu.Unlock()
	record("set", "ok")
	return true
}

func (m *Memory) Delete(_ context.Context, key string) bool {
	m.mu.Lock()
	m.items.Remove(key)
	m.mu.Unlock()
	record("delete", "ok")
	return true
}

func (m *Memory) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok
}

// Increment 保留原有过期时间
func (m *Memory) Increment(_ context.Context, key string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookup(key)
	var n int64
	if ok {
		parsed, err := strconv.ParseInt(string(item.value), 10, 64)
		if err != nil {
			record("incr", "failed")
			return 0, false
		}
		n = parsed
	}
	n++
	item.value = []byte(strconv.FormatInt(n, 10))
	m.items.Add(key, item)
	record("incr", "ok")
	return n, true
}

// Len 当前条目数（含未清理的过期条目）
func (m *Memory) Len() int {
	return m.items.Len()
}

var _ Cache = (*Memory)(nil)
