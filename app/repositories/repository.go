// Package repositories is the data access layer. Each entity gets a thin
// repository embedding the generic CRUD set; anything beyond CRUD (preloads,
// join-row surgery, upserts) lives on the concrete repository.
package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/orm"
)

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = orm.ErrNotFound

// Repository provides generic CRUD over an entity type. Concrete
// repositories embed it and add entity-specific queries.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository binds a generic repository to a connection.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Query starts an orm query on this repository's connection.
func (r *Repository[T]) Query() *orm.Query { return orm.With(r.db) }

// All returns every row ordered by primary key.
func (r *Repository[T]) All() ([]T, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []T
	err := orm.With(r.db).Order("id").Get(&out)
	return out, err
}

// Find fetches one row by primary key, ErrNotFound on a miss.
func (r *Repository[T]) Find(id uint) (T, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var entity T
	err := orm.With(r.db).Where("id = ?", id).First(&entity)
	return entity, err
}

// Create inserts a new row.
func (r *Repository[T]) Create(entity *T) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return orm.With(r.db).Create(entity)
}

// Update persists all fields of an existing row.
func (r *Repository[T]) Update(entity *T) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return orm.With(r.db).Save(entity)
}

// Delete removes a row.
func (r *Repository[T]) Delete(entity *T) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return orm.With(r.db).Delete(entity)
}
