// Package service implements the double-entry ledger writer.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var accountNames = map[string]string{
	ledgerdomain.AccountCodeSellerPayable:   "Seller Payable",
	ledgerdomain.AccountCodeCashClearing:    "Cash Clearing",
	ledgerdomain.AccountCodePlatformRevenue: "Platform Revenue",
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

func (s *Service) CreateEntry(ctx context.Context, sellerID snowflake.ID, sourceType string, sourceID snowflake.ID, currency string, occurredAt time.Time, lines []ledgerdomain.LedgerEntryLine) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.CreateEntryTx(ctx, tx, sellerID, sourceType, sourceID, currency, occurredAt, lines)
	})
}

func (s *Service) CreateEntryTx(ctx context.Context, tx *gorm.DB, sellerID snowflake.ID, sourceType string, sourceID snowflake.ID, currency string, occurredAt time.Time, lines []ledgerdomain.LedgerEntryLine) error {
	if sellerID == 0 {
		return ledgerdomain.ErrInvalidSeller
	}
	if strings.TrimSpace(sourceType) == "" {
		return ledgerdomain.ErrInvalidSourceType
	}
	if sourceID == 0 {
		return ledgerdomain.ErrInvalidSourceID
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return ledgerdomain.ErrInvalidCurrency
	}
	if occurredAt.IsZero() {
		return ledgerdomain.ErrInvalidOccurredAt
	}
	if err := ledgerdomain.ValidateBalanced(lines); err != nil {
		return err
	}

	entry := ledgerdomain.LedgerEntry{
		ID:         s.genID.Generate(),
		SellerID:   sellerID,
		SourceType: sourceType,
		SourceID:   sourceID,
		Currency:   currency,
		OccurredAt: occurredAt.UTC(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	for i := range lines {
		accountID, err := s.resolveAccount(ctx, tx, sellerID, lines[i].AccountCode)
		if err != nil {
			return err
		}
		lines[i].ID = s.genID.Generate()
		lines[i].LedgerEntryID = entry.ID
		lines[i].AccountID = accountID
		lines[i].CreatedAt = entry.CreatedAt
	}
	if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
		return err
	}

	s.log.Debug("ledger entry posted",
		zap.String("seller_id", sellerID.String()),
		zap.String("source_type", sourceType),
		zap.String("source_id", sourceID.String()),
	)
	return nil
}

func (s *Service) resolveAccount(ctx context.Context, tx *gorm.DB, sellerID snowflake.ID, code string) (snowflake.ID, error) {
	name, ok := accountNames[code]
	if !ok {
		return 0, ledgerdomain.ErrInvalidAccount
	}

	var account ledgerdomain.LedgerAccount
	err := tx.WithContext(ctx).
		First(&account, "seller_id = ? AND code = ?", sellerID, code).Error
	if err == nil {
		return account.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	account = ledgerdomain.LedgerAccount{
		ID:        s.genID.Generate(),
		SellerID:  sellerID,
		Code:      code,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&account).Error; err != nil {
		return 0, err
	}
	// Re-read in case a concurrent writer won the conflict.
	if err := tx.WithContext(ctx).
		First(&account, "seller_id = ? AND code = ?", sellerID, code).Error; err != nil {
		return 0, err
	}
	return account.ID, nil
}
