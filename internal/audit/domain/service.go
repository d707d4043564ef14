package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service records audit entries. Writes are best-effort from the caller's
// point of view: call sites log a failed write and continue, so an audit
// outage never blocks the underlying operation.
type Service interface {
	// AuditLog writes one entry. An empty actorType defaults to system.
	AuditLog(ctx context.Context, sellerID *snowflake.ID, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
