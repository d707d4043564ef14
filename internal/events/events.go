package events

// Outbox event types emitted by the payout lifecycle.
const (
	EventPayoutCreated  = "payout.created"
	EventPayoutApproved = "payout.approved"
	EventPayoutSettled  = "payout.settled"
	EventPayoutFailed   = "payout.failed"
	EventPayoutHeld     = "payout.held"
)

// PayoutPayload captures the minimal data downstream consumers need to act
// on a payout lifecycle event.
type PayoutPayload struct {
	PayoutID     string `json:"payout_id"`
	PayoutNumber string `json:"payout_number"`
	SellerID     string `json:"seller_id"`
	Status       string `json:"status"`
	NetAmount    string `json:"net_amount,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p PayoutPayload) ToMap() map[string]any {
	payload := map[string]any{
		"payout_id":     p.PayoutID,
		"payout_number": p.PayoutNumber,
		"seller_id":     p.SellerID,
		"status":        p.Status,
	}
	if p.NetAmount != "" {
		payload["net_amount"] = p.NetAmount
	}
	if p.Currency != "" {
		payload["currency"] = p.Currency
	}
	if p.Reason != "" {
		payload["reason"] = p.Reason
	}
	return payload
}
