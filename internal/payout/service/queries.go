package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/option"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// List returns one cursor page of the seller's payouts, newest first.
func (s *Service) List(ctx context.Context, req payoutdomain.ListRequest) (payoutdomain.ListResponse, error) {
	if req.SellerID == 0 {
		return payoutdomain.ListResponse{}, payoutdomain.ErrInvalidSeller
	}
	if req.Status != "" && !payoutdomain.ValidStatus(req.Status) {
		return payoutdomain.ListResponse{}, payoutdomain.ErrInvalidStatus
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := &payoutdomain.Payout{SellerID: req.SellerID, Status: req.Status}
	opts := []option.Option{
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  int(pageSize),
		}),
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
	}
	if req.From != nil {
		opts = append(opts, option.WithCreatedSince(*req.From))
	}
	if req.To != nil {
		opts = append(opts, option.WithCreatedUntil(*req.To))
	}

	items, err := s.payoutStore.Find(ctx, filter, opts...)
	if err != nil {
		return payoutdomain.ListResponse{}, err
	}

	info := pagination.BuildCursorPageInfo(items, pageSize, func(p *payoutdomain.Payout) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	visible := items
	if len(visible) > int(pageSize) {
		visible = visible[:pageSize]
	}
	payouts := make([]payoutdomain.Payout, 0, len(visible))
	for _, p := range visible {
		payouts = append(payouts, *p)
	}
	return payoutdomain.ListResponse{PageInfo: *info, Payouts: payouts}, nil
}

// GetByID returns a payout with its line items and full event history.
// A missing payout returns nil, nil.
func (s *Service) GetByID(ctx context.Context, payoutID snowflake.ID) (*payoutdomain.Detail, error) {
	if payoutID == 0 {
		return nil, payoutdomain.ErrInvalidPayout
	}
	payout, err := s.repo.FindPayout(ctx, s.db, payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, nil
	}
	items, err := s.repo.ListLineItems(ctx, s.db, payoutID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx, s.db, payoutID)
	if err != nil {
		return nil, err
	}
	return &payoutdomain.Detail{Payout: *payout, LineItems: items, Events: events}, nil
}

// Stats aggregates the seller's payout history by status.
func (s *Service) Stats(ctx context.Context, sellerID snowflake.ID) (payoutdomain.Stats, error) {
	if sellerID == 0 {
		return payoutdomain.Stats{}, payoutdomain.ErrInvalidSeller
	}
	totals, err := s.repo.StatusTotals(ctx, s.db, sellerID)
	if err != nil {
		return payoutdomain.Stats{}, err
	}

	stats := payoutdomain.Stats{
		ByStatus:    totals,
		LifetimeNet: decimal.Zero,
		Currency:    s.defaultCurrency,
	}
	for _, total := range totals {
		stats.TotalCount += total.Count
		if total.Status == payoutdomain.StatusSettled {
			stats.LifetimeNet = stats.LifetimeNet.Add(total.NetAmount)
		}
	}
	if settings, err := s.settingsSvc.Get(ctx, sellerID); err == nil && settings.Currency != "" {
		stats.Currency = settings.Currency
	}
	return stats, nil
}

// Timeline walks the seller's recent paid invoices and reports where each
// one sits in the funds lifecycle: still in the hold window, blocked by a
// dispute, eligible, or already paid out.
func (s *Service) Timeline(ctx context.Context, sellerID snowflake.ID, limit int) ([]payoutdomain.TimelineEntry, error) {
	if sellerID == 0 {
		return nil, payoutdomain.ErrInvalidSeller
	}
	settings, err := s.settingsSvc.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.ListPaidInvoices(ctx, s.db, sellerID, limit)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-settings.HoldDuration())
	entries := make([]payoutdomain.TimelineEntry, 0, len(invoices))
	for _, invoice := range invoices {
		if invoice.PaidAt == nil {
			continue
		}
		entry := payoutdomain.TimelineEntry{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			OrderID:       invoice.OrderID,
			NetAmount:     invoice.NetForPayout(),
			Currency:      invoice.Currency,
			PaidAt:        invoice.PaidAt.UTC(),
		}

		item, err := s.repo.FindLineItemByInvoice(ctx, s.db, invoice.ID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			payout, err := s.repo.FindPayout(ctx, s.db, item.PayoutID)
			if err != nil {
				return nil, err
			}
			entry.Stage = payoutdomain.TimelineStagePaidOut
			if payout != nil {
				id := payout.ID
				entry.PayoutID = &id
				entry.PayoutNumber = payout.PayoutNumber
				entry.PayoutStatus = payout.Status
			}
			entries = append(entries, entry)
			continue
		}

		disputed, err := s.repo.HasOpenDispute(ctx, s.db, invoice.OrderID)
		if err != nil {
			return nil, err
		}
		switch {
		case disputed:
			entry.Stage = payoutdomain.TimelineStageDisputed
		case invoice.PaidAt.After(cutoff):
			entry.Stage = payoutdomain.TimelineStageOnHold
			available := invoice.PaidAt.Add(settings.HoldDuration()).UTC()
			entry.AvailableAt = &available
		default:
			entry.Stage = payoutdomain.TimelineStageEligible
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
