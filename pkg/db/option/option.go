// Package option provides composable gorm query scopes for repositories.
package option

import (
	"strings"
	"time"

	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm query before execution.
type Option func(*gorm.DB) *gorm.DB

// QuerySortBy restricts sortable columns for a list query.
type QuerySortBy struct {
	Allow   map[string]bool
	Column  string
	Descend bool
}

// ApplyPagination decodes the page token and applies a keyset window plus a
// pageSize+1 limit so callers can detect a further page.
func ApplyPagination(p pagination.Pagination) Option {
	return func(db *gorm.DB) *gorm.DB {
		pageSize := p.PageSize
		if pageSize <= 0 {
			pageSize = 50
		}
		if token := strings.TrimSpace(p.PageToken); token != "" {
			cursor, err := pagination.DecodeCursor(token)
			if err == nil {
				if at, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt); parseErr == nil {
					db = db.Where(
						"(created_at < ?) OR (created_at = ? AND id < ?)",
						at, at, cursor.ID,
					)
				}
			}
		}
		return db.Limit(pageSize + 1)
	}
}

// WithSortBy orders the query by an allowed column, newest first by default.
func WithSortBy(sort QuerySortBy) Option {
	return func(db *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(sort.Column)
		if column == "" || (sort.Allow != nil && !sort.Allow[column]) {
			column = "created_at"
		}
		direction := "DESC"
		if sort.Descend {
			direction = "DESC"
		} else if sort.Column != "" {
			direction = "ASC"
		}
		return db.Order(column + " " + direction).Order("id DESC")
	}
}

// WithCreatedSince keeps rows created at or after the given instant.
func WithCreatedSince(at time.Time) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", at)
	}
}

// WithCreatedUntil keeps rows created at or before the given instant.
func WithCreatedUntil(at time.Time) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at <= ?", at)
	}
}

// WithLimit caps the number of rows returned.
func WithLimit(limit int) Option {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}
