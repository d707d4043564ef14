package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/events"
	ledgerdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/ledger/domain"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Approve moves a pending payout to processing and stamps the initiator.
// Admin-only; the HTTP layer enforces authorization before calling in here.
func (s *Service) Approve(ctx context.Context, payoutID snowflake.ID, adminID snowflake.ID) (payoutdomain.OperationResult, error) {
	if adminID == 0 {
		return payoutdomain.OperationResult{}, payoutdomain.ErrInvalidPayout
	}
	actor := adminID
	return s.transition(ctx, payoutID, transitionSpec{
		verb:      "approve",
		eventType: payoutdomain.EventPayoutApproved,
		actorID:   &actor,
		check: func(p *payoutdomain.Payout) error {
			if p.Status != payoutdomain.StatusPending {
				return transitionError("approve", p.Status)
			}
			return nil
		},
		apply: func(p *payoutdomain.Payout, now time.Time) {
			p.Status = payoutdomain.StatusProcessing
			if p.InitiatedAt == nil {
				p.InitiatedAt = &now
				p.InitiatedBy = &actor
			}
		},
		outboxType: events.EventPayoutApproved,
	})
}

// Process moves a payout into processing from any state the transition table
// allows. Unlike Approve it consults the table rather than requiring pending,
// so a payout released from hold can re-enter processing.
func (s *Service) Process(ctx context.Context, payoutID snowflake.ID, adminID snowflake.ID) (payoutdomain.OperationResult, error) {
	if adminID == 0 {
		return payoutdomain.OperationResult{}, payoutdomain.ErrInvalidPayout
	}
	actor := adminID
	return s.transition(ctx, payoutID, transitionSpec{
		verb:      "process",
		eventType: payoutdomain.EventPayoutProcessing,
		actorID:   &actor,
		check: func(p *payoutdomain.Payout) error {
			if !payoutdomain.CanTransition(p.Status, payoutdomain.StatusProcessing) {
				return transitionError("process", p.Status)
			}
			return nil
		},
		apply: func(p *payoutdomain.Payout, now time.Time) {
			p.Status = payoutdomain.StatusProcessing
			if p.InitiatedAt == nil {
				p.InitiatedAt = &now
				p.InitiatedBy = &actor
			}
		},
	})
}

// Settle marks a processing payout as paid. Terminal: no transition leaves
// settled. The bank reference lands in the event metadata and on the payout,
// and the settlement posts a balanced ledger entry in the same transaction.
func (s *Service) Settle(ctx context.Context, payoutID snowflake.ID, bankReference string, adminID *snowflake.ID) (payoutdomain.OperationResult, error) {
	return s.transition(ctx, payoutID, transitionSpec{
		verb:      "settle",
		eventType: payoutdomain.EventPayoutSettled,
		actorID:   adminID,
		check: func(p *payoutdomain.Payout) error {
			// Stricter than the table: settling only makes sense from
			// processing even though the table permits nothing else anyway.
			if p.Status != payoutdomain.StatusProcessing {
				return transitionError("settle", p.Status)
			}
			return nil
		},
		apply: func(p *payoutdomain.Payout, now time.Time) {
			p.Status = payoutdomain.StatusSettled
			p.SettledAt = &now
			p.BankConfirmationDate = &now
			if bankReference != "" {
				p.BankReference = &bankReference
			}
		},
		metadata: func(p *payoutdomain.Payout) datatypes.JSONMap {
			meta := datatypes.JSONMap{}
			if bankReference != "" {
				meta["bank_reference"] = bankReference
			}
			return meta
		},
		after: func(ctx context.Context, tx *gorm.DB, p *payoutdomain.Payout, now time.Time) error {
			amount := p.NetAmount.Shift(2).IntPart()
			return s.ledgerSvc.CreateEntryTx(ctx, tx, p.SellerID,
				ledgerdomain.SourceTypePayout, p.ID, p.Currency, now,
				[]ledgerdomain.LedgerEntryLine{
					{AccountCode: ledgerdomain.AccountCodeSellerPayable, Direction: ledgerdomain.LedgerEntryDirectionDebit, Amount: amount},
					{AccountCode: ledgerdomain.AccountCodeCashClearing, Direction: ledgerdomain.LedgerEntryDirectionCredit, Amount: amount},
				})
		},
		outboxType: events.EventPayoutSettled,
	})
}

// Fail marks a payout failed with a reason. Legal from any state but settled.
func (s *Service) Fail(ctx context.Context, payoutID snowflake.ID, reason string, adminID *snowflake.ID) (payoutdomain.OperationResult, error) {
	return s.transition(ctx, payoutID, transitionSpec{
		verb:      "fail",
		eventType: payoutdomain.EventPayoutFailed,
		actorID:   adminID,
		check: func(p *payoutdomain.Payout) error {
			if p.Status == payoutdomain.StatusSettled {
				return transitionError("fail", p.Status)
			}
			return nil
		},
		apply: func(p *payoutdomain.Payout, now time.Time) {
			p.Status = payoutdomain.StatusFailed
			p.FailedAt = &now
			if reason != "" {
				p.FailureReason = &reason
			}
		},
		metadata: func(p *payoutdomain.Payout) datatypes.JSONMap {
			meta := datatypes.JSONMap{}
			if reason != "" {
				meta["reason"] = reason
			}
			return meta
		},
		outboxType:   events.EventPayoutFailed,
		outboxReason: reason,
	})
}

// Hold parks a payout, optionally until a release date. Legal from any state
// but settled.
func (s *Service) Hold(ctx context.Context, payoutID snowflake.ID, reason string, holdUntil *time.Time, adminID *snowflake.ID) (payoutdomain.OperationResult, error) {
	return s.transition(ctx, payoutID, transitionSpec{
		verb:      "hold",
		eventType: payoutdomain.EventPayoutHeld,
		actorID:   adminID,
		check: func(p *payoutdomain.Payout) error {
			if p.Status == payoutdomain.StatusSettled {
				return transitionError("hold", p.Status)
			}
			return nil
		},
		apply: func(p *payoutdomain.Payout, now time.Time) {
			p.Status = payoutdomain.StatusOnHold
			if reason != "" {
				p.HoldReason = &reason
			}
			p.HoldUntil = holdUntil
		},
		metadata: func(p *payoutdomain.Payout) datatypes.JSONMap {
			meta := datatypes.JSONMap{}
			if reason != "" {
				meta["reason"] = reason
			}
			if holdUntil != nil {
				meta["hold_until"] = holdUntil.UTC().Format(time.RFC3339)
			}
			return meta
		},
		outboxType:   events.EventPayoutHeld,
		outboxReason: reason,
	})
}

// transitionSpec describes one lifecycle operation for the shared runner.
type transitionSpec struct {
	verb      string
	eventType string
	actorID   *snowflake.ID

	check    func(*payoutdomain.Payout) error
	apply    func(*payoutdomain.Payout, time.Time)
	metadata func(*payoutdomain.Payout) datatypes.JSONMap
	after    func(context.Context, *gorm.DB, *payoutdomain.Payout, time.Time) error

	outboxType   string
	outboxReason string
}

// statusError marks a transition rejection so the runner can surface it as
// a business result rather than an infrastructure error.
type statusError struct{ msg string }

func (e statusError) Error() string { return e.msg }

func transitionError(verb string, status payoutdomain.Status) error {
	return statusError{msg: fmt.Sprintf("Cannot %s payout with status: %s", verb, status)}
}

func (s *Service) transition(ctx context.Context, payoutID snowflake.ID, spec transitionSpec) (payoutdomain.OperationResult, error) {
	if payoutID == 0 {
		return payoutdomain.OperationResult{}, payoutdomain.ErrInvalidPayout
	}

	var payout *payoutdomain.Payout
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		payout, err = s.repo.FindPayoutForUpdate(ctx, tx, payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return statusError{msg: payoutdomain.ReasonPayoutNotFound}
		}
		if err := spec.check(payout); err != nil {
			return err
		}

		now := s.now()
		from := payout.Status
		spec.apply(payout, now)
		payout.UpdatedAt = now
		if err := s.repo.UpdatePayout(ctx, tx, payout); err != nil {
			return err
		}

		actorType := payoutdomain.ActorTypeSystem
		if spec.actorID != nil {
			actorType = payoutdomain.ActorTypeAdmin
		}
		to := payout.Status
		meta := datatypes.JSONMap{}
		if spec.metadata != nil {
			meta = spec.metadata(payout)
		}
		event := &payoutdomain.PayoutEvent{
			ID:         s.genID.Generate(),
			PayoutID:   payout.ID,
			EventType:  spec.eventType,
			ActorID:    spec.actorID,
			ActorType:  actorType,
			FromStatus: &from,
			ToStatus:   &to,
			Metadata:   meta,
			CreatedAt:  now,
		}
		if err := s.repo.InsertEvent(ctx, tx, event); err != nil {
			return err
		}

		if spec.after != nil {
			if err := spec.after(ctx, tx, payout, now); err != nil {
				return err
			}
		}

		if spec.outboxType != "" {
			payload := events.PayoutPayload{
				PayoutID:     payout.ID.String(),
				PayoutNumber: payout.PayoutNumber,
				SellerID:     payout.SellerID.String(),
				Status:       string(payout.Status),
				Reason:       spec.outboxReason,
			}
			return s.outbox.PublishTx(ctx, tx, events.Event{
				SellerID:  payout.SellerID,
				Type:      spec.outboxType,
				Payload:   payload.ToMap(),
				DedupeKey: spec.outboxType + ":" + payout.ID.String() + ":" + event.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		var rejected statusError
		if errors.As(err, &rejected) {
			return payoutdomain.OperationResult{Error: rejected.msg}, nil
		}
		return payoutdomain.OperationResult{}, err
	}

	s.log.Info("payout transitioned",
		zap.String("payout_id", payout.ID.String()),
		zap.String("event", spec.eventType),
		zap.String("status", string(payout.Status)),
	)
	return payoutdomain.OperationResult{Success: true, Payout: payout}, nil
}
