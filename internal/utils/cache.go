package utils

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例
var Cache *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet 获取缓存值
func CacheGet(key string) (interface{}, bool) {
	if Cache == nil {
		return nil, false
	}
	return Cache.Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	if Cache == nil {
		return
	}
	Cache.Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	if Cache == nil {
		return
	}
	Cache.Delete(key)
}

// CacheDeletePrefix 删除指定前缀的所有缓存
func CacheDeletePrefix(prefix string) {
	if Cache == nil {
		return
	}
	for key := range Cache.Items() {
		if strings.HasPrefix(key, prefix) {
			Cache.Delete(key)
		}
	}
}

// CacheClear 清空所有缓存
func CacheClear() {
	if Cache == nil {
		return
	}
	Cache.Flush()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// ExpiringLRU 带过期时间的 LRU 缓存
type ExpiringLRU[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewExpiringLRU 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewExpiringLRU[T any](size int, ttl time.Duration) *ExpiringLRU[T] {
	// lru.New 是线程安全的，size <= 0 时才会报错
	if size <= 0 {
		size = 128
	}
	c, _ := lru.New[string, CacheItem[T]](size)
	return &ExpiringLRU[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（已存在则覆盖）
func (c *ExpiringLRU[T]) Set(key string, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取（带过期检查）
func (c *ExpiringLRU[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除
func (c *ExpiringLRU[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Purge 清空
func (c *ExpiringLRU[T]) Purge() {
	c.storage.Purge()
}

// Len 当前条数
func (c *ExpiringLRU[T]) Len() int {
	return c.storage.Len()
}
