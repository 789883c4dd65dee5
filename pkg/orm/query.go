// Package orm is a thin fluent layer over the shared *gorm.DB, with
// read-through caching and pagination helpers:
//
//	var items []models.FoodItem
//	err := orm.DB().Model(&models.FoodItem{}).
//		Where("available = ?", true).
//		Cache("food:available", 5*time.Minute, &items)
package orm

import (
	"time"

	"github.com/shashiranjanraj/campuseats/pkg/cache"
	"github.com/shashiranjanraj/campuseats/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// WithTx wraps an existing transaction handle so repository helpers can
// run inside it.
func WithTx(tx *gorm.DB) *Query {
	return &Query{db: tx}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// Unscoped disables the soft-delete filter; Delete through an unscoped
// query removes the row permanently.
func (q *Query) Unscoped() *Query {
	return &Query{db: q.db.Unscoped()}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// Updates applies a partial update from a map or struct.
func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Cache is a read-through cache for Get: on a hit dest is filled from
// Redis, on a miss the query runs and the result is stored under key.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}

// ─── Pagination ──────────────────────────────────────────────────────────────

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// GetWithPagination fills dest with one page of results and returns the
// pagination metadata. Page and limit are clamped to sane bounds.
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

// Transaction runs fn inside a database transaction on the shared handle.
func Transaction(fn func(tx *gorm.DB) error) error {
	return database.DB.Transaction(fn)
}
