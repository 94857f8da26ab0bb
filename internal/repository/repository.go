package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Ladybert/web-api-client/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when an id does not resolve to a row
var ErrNotFound = errors.New("record not found")

// Page is one offset page of records plus the total row count
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

type options struct {
	preloads []string
	metrics  *prometheus.Metrics
}

// Option configures a Repository
type Option func(*options)

// WithPreload eager-loads the named associations on reads
func WithPreload(associations ...string) Option {
	return func(o *options) {
		o.preloads = append(o.preloads, associations...)
	}
}

// WithMetrics records operation durations on m
func WithMetrics(m *prometheus.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Repository provides CRUD access to one model type
type Repository[T any] struct {
	db    *gorm.DB
	table string
	opts  options
}

// New creates a repository for T
func New[T any](db *gorm.DB, opts ...Option) *Repository[T] {
	r := &Repository[T]{db: db}
	for _, opt := range opts {
		opt(&r.opts)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err == nil {
		r.table = stmt.Schema.Table
	}
	return r
}

// Table returns the table backing the repository
func (r *Repository[T]) Table() string {
	return r.table
}

// DB returns the underlying handle
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T]) track(operation string) func(time.Time) {
	return r.opts.metrics.TrackDBOperation(r.table, operation)
}

func (r *Repository[T]) reader(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.opts.preloads {
		q = q.Preload(p)
	}
	return q
}

// List returns one page of records, newest first
func (r *Repository[T]) List(ctx context.Context, page, pageSize int) (*Page[T], error) {
	defer r.track("list")(time.Now())

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", r.table, err)
	}

	result := &Page[T]{
		Items:    []T{},
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	// pages past the last row, including offsets beyond int range, are empty
	if page-1 > math.MaxInt/pageSize || int64((page-1)*pageSize) >= total {
		return result, nil
	}

	items := make([]T, 0, pageSize)
	err := r.reader(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}

	result.Items = items
	return result, nil
}

// Get returns the record with the given id
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	defer r.track("get")(time.Now())

	item := new(T)
	if err := r.reader(ctx).First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", r.table, id, err)
	}
	return item, nil
}

// Exists reports whether a row with the given id exists
func (r *Repository[T]) Exists(ctx context.Context, id uint) (bool, error) {
	defer r.track("exists")(time.Now())

	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("exists %s %d: %w", r.table, id, err)
	}
	return count > 0, nil
}

// Create inserts the record; associations are not written
func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	defer r.track("create")(time.Now())

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.table, err)
	}
	return nil
}

// Update writes every column of an existing record
func (r *Repository[T]) Update(ctx context.Context, item *T) error {
	defer r.track("update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(item).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(item)
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", r.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given id
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	defer r.track("delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("delete %s %d: %w", r.table, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
