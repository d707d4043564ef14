// Package repository implements audit log persistence on gorm.
package repository

import (
	"context"

	auditdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/domain"
	"gorm.io/gorm"
)

type gormRepository struct{}

// Provide builds the audit repository.
func Provide() auditdomain.Repository {
	return &gormRepository{}
}

func (r *gormRepository) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *gormRepository) List(ctx context.Context, db *gorm.DB, filter auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	query := db.WithContext(ctx).Model(&auditdomain.AuditLog{})
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.ActorType != "" {
		query = query.Where("actor_type = ?", filter.ActorType)
	}
	if filter.StartAt != nil {
		query = query.Where("created_at >= ?", *filter.StartAt)
	}
	if filter.EndAt != nil {
		query = query.Where("created_at <= ?", *filter.EndAt)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var entries []*auditdomain.AuditLog
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
