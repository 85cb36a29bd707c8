package policy

import (
	"github.com/popgames/platform/internal/domain"
)

// Merchant-facing messages returned by the configuration save.
const (
	MsgUpdated        = "Updated successfully"
	MsgUpdateFailed   = "Update failed"
	MsgProbabilitySum = "Probabilities must add up to 100"
	MsgTierOrdering   = "Higher tier discounts must provide a larger percentage off than the tiers below them"
)

// TierChange is one percentage change that must be synchronized to the
// external discount system before it may be persisted.
type TierChange struct {
	Tier       domain.Tier
	DiscountID string
	PctOff     float64
}

// TierPlan is the validated outcome of merging a ConfigUpdate into the
// current StoreConfig. Merged holds the full post-save record; Changes
// lists the percentage tiers whose external discount codes need updating.
type TierPlan struct {
	Merged  domain.StoreConfig
	Changes []TierChange
}

// PlanConfigUpdate validates a proposed update against the current
// configuration and computes the merged record. Validation is
// all-or-nothing: the first failing check rejects the whole update and
// nothing is applied, game flags included.
//
// Check order matters: the probability sum is checked before tier
// ordering, and each failure carries its own merchant-facing message.
func PlanConfigUpdate(current domain.StoreConfig, update domain.ConfigUpdate) (*TierPlan, *domain.ConfigResult) {
	merged := current

	if update.UseWordGame != nil {
		merged.UseWordGame = *update.UseWordGame
	}
	if update.UseBirdGame != nil {
		merged.UseBirdGame = *update.UseBirdGame
	}

	if update.HasProbabilities() {
		lo := pick(update.LowProb, current.LowProb)
		mid := pick(update.MidProb, current.MidProb)
		hi := pick(update.HighProb, current.HighProb)

		// Exact equality, matching the storefront widget which always
		// submits fractions that divide 100 evenly.
		if lo+mid+hi != 1 {
			return nil, &domain.ConfigResult{Success: false, Message: MsgProbabilitySum}
		}
		merged.LowProb, merged.MidProb, merged.HighProb = lo, mid, hi
	}

	if update.HasPercentages() {
		lo := pick(update.LowPctOff, current.LowPctOff)
		mid := pick(update.MidPctOff, current.MidPctOff)
		hi := pick(update.HighPctOff, current.HighPctOff)

		if !(lo < mid && mid < hi) {
			return nil, &domain.ConfigResult{Success: false, Message: MsgTierOrdering}
		}
		merged.LowPctOff, merged.MidPctOff, merged.HighPctOff = lo, mid, hi
	}

	plan := &TierPlan{Merged: merged}
	if merged.LowPctOff != current.LowPctOff {
		plan.Changes = append(plan.Changes, TierChange{Tier: domain.TierLow, DiscountID: current.LowDiscountID, PctOff: merged.LowPctOff})
	}
	if merged.MidPctOff != current.MidPctOff {
		plan.Changes = append(plan.Changes, TierChange{Tier: domain.TierMid, DiscountID: current.MidDiscountID, PctOff: merged.MidPctOff})
	}
	if merged.HighPctOff != current.HighPctOff {
		plan.Changes = append(plan.Changes, TierChange{Tier: domain.TierHigh, DiscountID: current.HighDiscountID, PctOff: merged.HighPctOff})
	}
	return plan, nil
}

func pick(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
