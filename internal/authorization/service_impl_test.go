package authorization

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAuthorizeAllowsAdmin(t *testing.T) {
	db := setupAuthzTestDB(t)

	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	if _, err := enforcer.AddGroupingPolicy("admin:10", "payout_admin"); err != nil {
		t.Fatalf("add grouping: %v", err)
	}
	if _, err := enforcer.AddPolicy("payout_admin", ObjectPayout, ActionPayoutApprove); err != nil {
		t.Fatalf("add policy: %v", err)
	}
	svc := &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}

	if err := svc.Authorize(context.Background(), "admin:10", ObjectPayout, ActionPayoutApprove); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeDeniesUnknownActor(t *testing.T) {
	db := setupAuthzTestDB(t)

	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	if _, err := enforcer.AddPolicy("payout_admin", ObjectPayout, ActionPayoutApprove); err != nil {
		t.Fatalf("add policy: %v", err)
	}
	svc := &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}

	err = svc.Authorize(context.Background(), "admin:99", ObjectPayout, ActionPayoutApprove)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeDeniesMissingCapability(t *testing.T) {
	db := setupAuthzTestDB(t)

	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	if _, err := enforcer.AddGroupingPolicy("admin:11", "payout_viewer"); err != nil {
		t.Fatalf("add grouping: %v", err)
	}
	if _, err := enforcer.AddPolicy("payout_viewer", ObjectPayout, ActionPayoutApprove); err != nil {
		t.Fatalf("add policy: %v", err)
	}
	svc := &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}

	err = svc.Authorize(context.Background(), "admin:11", ObjectPayout, ActionPayoutSettle)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeSystem(t *testing.T) {
	db := setupAuthzTestDB(t)

	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	svc := &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}

	if err := svc.Authorize(context.Background(), SubjectSystem, ObjectPayout, ActionPayoutSettle); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
}

func TestAuthorizeRejectsEmptyInputs(t *testing.T) {
	db := setupAuthzTestDB(t)

	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	svc := &ServiceImpl{
		db:       db,
		log:      zap.NewNop(),
		enforcer: enforcer,
	}

	if err := svc.Authorize(context.Background(), "", ObjectPayout, ActionPayoutHold); !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected invalid actor, got %v", err)
	}
	if err := svc.Authorize(context.Background(), "admin:1", "", ActionPayoutHold); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("expected invalid object, got %v", err)
	}
	if err := svc.Authorize(context.Background(), "admin:1", ObjectPayout, ""); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected invalid action, got %v", err)
	}
}

func setupAuthzTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS casbin_rule (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ptype VARCHAR(100) NOT NULL,
			v0 VARCHAR(100),
			v1 VARCHAR(100),
			v2 VARCHAR(100),
			v3 VARCHAR(100),
			v4 VARCHAR(100),
			v5 VARCHAR(100)
		)`,
	).Error; err != nil {
		t.Fatalf("create casbin_rule: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`DELETE FROM casbin_rule`)
	})
	return db
}
