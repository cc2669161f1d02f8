// Package orm is a thin chainable wrapper over GORM. Repositories go
// through it so caching and pagination stay uniform across entities.
package orm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/pkg/database"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("orm: record not found")

// Cacher is the cache contract wired in at boot (avoids an orm↔cache
// import cycle).
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set by the server boot code.
var CacheStore Cacher

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query against the default connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// With starts a query against an explicit connection (tests use an
// in-memory sqlite database).
func With(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare operation the wrapper
// does not cover (e.g. clause.OnConflict upserts).
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First fetches one row; a miss maps to ErrNotFound so callers can use
// errors.Is without importing gorm.
func (q *Query) First(dest interface{}) error {
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

func (q *Query) Delete(value interface{}, conds ...interface{}) error {
	return q.db.Delete(value, conds...).Error
}

func (q *Query) Count(count *int64) error {
	return q.db.Count(count).Error
}

// GetWithPagination fills dest with one page and returns the page metadata.
// page and limit are normalised (page >= 1, 1 <= limit <= 100).
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache serves dest from the cache store under key, falling back to the
// query and populating the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}
