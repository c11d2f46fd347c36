package util

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// CacheConfig 用于配置LRU缓存的行为。
type CacheConfig struct {
	// Capacity 是缓存的最大元素数量，必须大于0。
	Capacity int
	// TTL 是元素的存活时间。如果为0，则元素永不过期。
	TTL time.Duration
	// Now 用于测试时替换时钟，默认 time.Now。
	Now func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// LRUCache 是一个支持泛型、线程安全、可选TTL的LRU缓存。
// 过期元素在访问时被动淘汰。
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	ll    *list.List
	items map[K]*list.Element
}

// NewLRU 使用指定的配置创建一个LRU缓存实例。
func NewLRU[K comparable, V any](cfg CacheConfig) (*LRUCache[K, V], error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("Capacity 必须大于0，当前为 %d", cfg.Capacity)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LRUCache[K, V]{
		capacity: cfg.Capacity,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}, nil
}

// Get 根据键获取一个值，并将其标记为最近使用。
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.expired(e) {
		c.remove(el)
		return zero, false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

// Put 添加或更新一个键值对，更新时刷新TTL。
func (c *LRUCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
	}
}

// GetOrPut 返回已有的值；不存在或已过期时用 create 生成并写入。
// 整个过程持有锁，同一个键只会创建一次。
func (c *LRUCache[K, V]) GetOrPut(key K, create func() V) V {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		if !c.expired(e) {
			c.ll.MoveToFront(el)
			c.mu.Unlock()
			return e.value
		}
		c.remove(el)
	}
	c.mu.Unlock()

	// create 不在锁内执行，可能阻塞；写回时再检查一次
	v := create()

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		if !c.expired(e) {
			c.ll.MoveToFront(el)
			return e.value
		}
		c.remove(el)
	}
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}
	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, value: v, expiresAt: expiresAt})
	for c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
	}
	return v
}

// Remove 删除一个键。
func (c *LRUCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.remove(el)
	}
}

// Purge 清空缓存。
func (c *LRUCache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[K]*list.Element)
}

// Len 返回当前缓存中的条目数量，包括尚未被动淘汰的过期条目。
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// 调用方持有锁。
func (c *LRUCache[K, V]) expired(e *entry[K, V]) bool {
	return c.ttl > 0 && !c.now().Before(e.expiresAt)
}

// 调用方持有锁。
func (c *LRUCache[K, V]) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
}
