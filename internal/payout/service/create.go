package service

import (
	"context"
	"errors"

	bankdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/bankaccount/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/events"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Create materializes a payout for the seller: one payout row, one immutable
// line item per eligible invoice, and the creation event, all in a single
// transaction. Business-rule rejections come back as a failed
// OperationResult; storage failures as an error.
func (s *Service) Create(ctx context.Context, req payoutdomain.CreateRequest) (payoutdomain.OperationResult, error) {
	if req.SellerID == 0 {
		return payoutdomain.OperationResult{}, payoutdomain.ErrInvalidSeller
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() || req.PeriodEnd.Before(req.PeriodStart) {
		return payoutdomain.OperationResult{}, payoutdomain.ErrInvalidPeriod
	}

	account, err := s.repo.FindBankAccount(ctx, s.db, req.SellerID)
	if err != nil {
		return payoutdomain.OperationResult{}, err
	}
	if account == nil || !account.Verified() {
		return payoutdomain.OperationResult{Error: payoutdomain.ReasonNoVerifiedBank}, nil
	}

	settings, err := s.settingsSvc.Get(ctx, req.SellerID)
	if err != nil {
		return payoutdomain.OperationResult{}, err
	}
	eligibility, err := s.calculateEligible(ctx, s.db, req.SellerID, settings)
	if err != nil {
		return payoutdomain.OperationResult{}, err
	}
	if !eligibility.Eligible {
		reason := eligibility.Reason
		if reason == "" {
			reason = payoutdomain.ReasonNoEligibleInvoices
		}
		return payoutdomain.OperationResult{Error: reason}, nil
	}

	now := s.now()
	payout := &payoutdomain.Payout{
		ID:          s.genID.Generate(),
		SellerID:    req.SellerID,
		PeriodStart: req.PeriodStart.UTC(),
		PeriodEnd:   req.PeriodEnd.UTC(),

		GrossAmount:      eligibility.TotalGross,
		PlatformFeeTotal: eligibility.TotalPlatformFee,
		NetAmount:        eligibility.TotalNet,
		Currency:         eligibility.Currency,

		Status: payoutdomain.StatusPending,

		BankName:      account.BankName,
		AccountHolder: account.AccountHolder,
		IBANMasked:    bankdomain.MaskIBAN(account.IBAN),

		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		number, err := s.nextPayoutNumber(ctx, tx, now.Year())
		if err != nil {
			return err
		}
		payout.PayoutNumber = number

		if err := s.repo.InsertPayout(ctx, tx, payout); err != nil {
			return err
		}

		items := make([]payoutdomain.PayoutLineItem, 0, len(eligibility.Invoices))
		for _, invoice := range eligibility.Invoices {
			items = append(items, payoutdomain.PayoutLineItem{
				ID:            s.genID.Generate(),
				PayoutID:      payout.ID,
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.InvoiceNumber,
				OrderID:       invoice.OrderID,
				GrossAmount:   invoice.TotalAmount,
				PlatformFee:   invoice.PlatformFeeAmount,
				NetAmount:     invoice.NetForPayout(),
				PaidAt:        invoice.PaidAt.UTC(),
				CreatedAt:     now,
			})
		}
		if err := s.repo.InsertLineItems(ctx, tx, items); err != nil {
			// Another payout claimed one of the invoices between the
			// eligibility read and this insert.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return payoutdomain.ErrEligibilityChanged
			}
			return err
		}

		actorType := payoutdomain.ActorTypeSystem
		if req.ActorID != nil {
			actorType = payoutdomain.ActorTypeAdmin
		}
		pending := payoutdomain.StatusPending
		event := &payoutdomain.PayoutEvent{
			ID:        s.genID.Generate(),
			PayoutID:  payout.ID,
			EventType: payoutdomain.EventPayoutCreated,
			ActorID:   req.ActorID,
			ActorType: actorType,
			ToStatus:  &pending,
			Metadata: datatypes.JSONMap{
				"invoice_count": len(items),
				"total_net":     payout.NetAmount.String(),
			},
			CreatedAt: now,
		}
		if err := s.repo.InsertEvent(ctx, tx, event); err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			SellerID: req.SellerID,
			Type:     events.EventPayoutCreated,
			Payload: events.PayoutPayload{
				PayoutID:     payout.ID.String(),
				PayoutNumber: payout.PayoutNumber,
				SellerID:     req.SellerID.String(),
				Status:       string(payout.Status),
				NetAmount:    payout.NetAmount.String(),
				Currency:     payout.Currency,
			}.ToMap(),
			DedupeKey: "payout.created:" + payout.ID.String(),
		})
	})
	if err != nil {
		return payoutdomain.OperationResult{}, err
	}

	if s.metrics != nil {
		s.metrics.IncPayoutCreated()
	}
	s.log.Info("payout created",
		zap.String("payout_number", payout.PayoutNumber),
		zap.String("seller_id", req.SellerID.String()),
		zap.String("net_amount", payout.NetAmount.String()),
	)
	return payoutdomain.OperationResult{Success: true, Payout: payout}, nil
}
