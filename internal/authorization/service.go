package authorization

import "context"

// Objects and actions guarded by the enforcer. Admin payout operations all
// route through these before touching the lifecycle service.
const (
	ObjectPayout         = "payout"
	ObjectPayoutSettings = "payout_settings"

	ActionPayoutCreate   = "payout:create"
	ActionPayoutBatchRun = "payout:batch_run"
	ActionPayoutApprove  = "payout:approve"
	ActionPayoutProcess  = "payout:process"
	ActionPayoutSettle   = "payout:settle"
	ActionPayoutFail     = "payout:fail"
	ActionPayoutHold     = "payout:hold"

	ActionSettingsUpdate = "payout_settings:update"
)

type Service interface {
	Authorize(ctx context.Context, actor string, object string, action string) error
}
