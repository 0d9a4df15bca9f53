// cache.go — LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fh_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fh_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// Cache — per-instance LRU-кэш метаданных файлов с автоматическим TTL.
// Используется на пути скачивания; инвалидируется при publish/unpublish.
type Cache struct {
	lru *expirable.LRU[string, *model.FileRecord]
}

// NewCache создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, *model.FileRecord](maxSize, nil, ttl),
	}
}

// Get возвращает запись из кэша по id.
// Возвращает (запись, true) при hit или (nil, false) при miss.
func (c *Cache) Get(id string) (*model.FileRecord, bool) {
	val, ok := c.lru.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *Cache) Set(id string, rec *model.FileRecord) {
	c.lru.Add(id, rec)
}

// Delete удаляет запись из кэша (инвалидация при изменении видимости).
func (c *Cache) Delete(id string) {
	c.lru.Remove(id)
}
