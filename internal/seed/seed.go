// Package seed bootstraps authorization policies at startup.
package seed

import (
	"errors"

	"github.com/casbin/casbin/v2"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/authorization"
)

// PayoutAdminRole is the role granted the full payout operation set.
const PayoutAdminRole = "payout_admin"

var payoutAdminPolicies = [][]string{
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutCreate},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutBatchRun},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutApprove},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutProcess},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutSettle},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutFail},
	{PayoutAdminRole, authorization.ObjectPayout, authorization.ActionPayoutHold},
	{PayoutAdminRole, authorization.ObjectPayoutSettings, authorization.ActionSettingsUpdate},
}

// EnsurePayoutPolicies installs the payout admin role policies. Re-running
// against an already seeded store is a no-op.
func EnsurePayoutPolicies(enforcer *casbin.Enforcer) error {
	if enforcer == nil {
		return errors.New("seed enforcer handle is required")
	}
	for _, policy := range payoutAdminPolicies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return err
		}
	}
	return enforcer.SavePolicy()
}

// EnsureAdminGrant links one admin actor to the payout admin role, for
// first-boot setups where no grants exist yet.
func EnsureAdminGrant(enforcer *casbin.Enforcer, adminActor string) error {
	if enforcer == nil {
		return errors.New("seed enforcer handle is required")
	}
	if adminActor == "" {
		return nil
	}
	_, err := enforcer.AddGroupingPolicy(adminActor, PayoutAdminRole)
	return err
}
