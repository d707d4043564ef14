// Package repository provides a generic gorm-backed store for domain models.
package repository

import (
	"context"
	"errors"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a typed data store over a single gorm model.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	Find(ctx context.Context, filter *T, opts ...option.Option) ([]*T, error)
	FindOne(ctx context.Context, filter *T) (*T, error)
	Update(ctx context.Context, record *T) error
	Count(ctx context.Context, filter *T) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) Find(ctx context.Context, filter *T, opts ...option.Option) ([]*T, error) {
	query := s.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		query = query.Where(filter)
	}
	for _, opt := range opts {
		if opt != nil {
			query = opt(query)
		}
	}
	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) FindOne(ctx context.Context, filter *T) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).Where(filter).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Update(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *store[T]) Count(ctx context.Context, filter *T) (int64, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		query = query.Where(filter)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
