package policy

import (
	"testing"

	"github.com/popgames/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func baseStore() domain.StoreConfig {
	return domain.StoreConfig{
		Shop:           "test-shop.myshopify.com",
		LowPctOff:      0.10,
		MidPctOff:      0.15,
		HighPctOff:     0.25,
		LowProb:        0.60,
		MidProb:        0.30,
		HighProb:       0.10,
		LowDiscountID:  "gid://shopify/DiscountCodeNode/1",
		MidDiscountID:  "gid://shopify/DiscountCodeNode/2",
		HighDiscountID: "gid://shopify/DiscountCodeNode/3",
		UseWordGame:    true,
		UseBirdGame:    true,
	}
}

func TestPlanConfigUpdate_ValidFullUpdate(t *testing.T) {
	update := domain.ConfigUpdate{
		LowPctOff: f(0.20), MidPctOff: f(0.30), HighPctOff: f(0.40),
		LowProb: f(0.5), MidProb: f(0.3), HighProb: f(0.2),
		UseWordGame: b(false),
	}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	require.Nil(t, rejected)

	assert.Equal(t, 0.20, plan.Merged.LowPctOff)
	assert.Equal(t, 0.30, plan.Merged.MidPctOff)
	assert.Equal(t, 0.40, plan.Merged.HighPctOff)
	assert.Equal(t, 0.5, plan.Merged.LowProb)
	assert.False(t, plan.Merged.UseWordGame)
	assert.True(t, plan.Merged.UseBirdGame)
	assert.Len(t, plan.Changes, 3)
}

func TestPlanConfigUpdate_ProbabilitySumRejected(t *testing.T) {
	update := domain.ConfigUpdate{
		LowProb: f(0.3), MidProb: f(0.3), HighProb: f(0.3),
	}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	assert.Nil(t, plan)
	require.NotNil(t, rejected)
	assert.False(t, rejected.Success)
	assert.Equal(t, MsgProbabilitySum, rejected.Message)
}

func TestPlanConfigUpdate_ProbabilityFailureRejectsFlags(t *testing.T) {
	// A failing probability check must not let the flag change through:
	// validation is all-or-nothing across every field.
	update := domain.ConfigUpdate{
		LowProb: f(0.3), MidProb: f(0.3), HighProb: f(0.3),
		UseWordGame: b(false),
	}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	assert.Nil(t, plan)
	require.NotNil(t, rejected)
}

func TestPlanConfigUpdate_TierOrderingRejected(t *testing.T) {
	update := domain.ConfigUpdate{
		LowPctOff: f(0.2), MidPctOff: f(0.1), HighPctOff: f(0.3),
	}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	assert.Nil(t, plan)
	require.NotNil(t, rejected)
	assert.Equal(t, MsgTierOrdering, rejected.Message)
}

func TestPlanConfigUpdate_EqualTiersRejected(t *testing.T) {
	update := domain.ConfigUpdate{
		LowPctOff: f(0.2), MidPctOff: f(0.2), HighPctOff: f(0.3),
	}

	_, rejected := PlanConfigUpdate(baseStore(), update)
	require.NotNil(t, rejected)
	assert.Equal(t, MsgTierOrdering, rejected.Message)
}

func TestPlanConfigUpdate_PartialPercentagesMergeWithCurrent(t *testing.T) {
	// Only mid supplied; ordering is checked against the stored low/high.
	update := domain.ConfigUpdate{MidPctOff: f(0.20)}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	require.Nil(t, rejected)
	require.Len(t, plan.Changes, 1)
	assert.Equal(t, domain.TierMid, plan.Changes[0].Tier)
	assert.Equal(t, "gid://shopify/DiscountCodeNode/2", plan.Changes[0].DiscountID)
	assert.Equal(t, 0.20, plan.Changes[0].PctOff)
}

func TestPlanConfigUpdate_PartialPercentageViolatingOrderRejected(t *testing.T) {
	// Stored low is 0.10; a mid below it must fail even though mid alone
	// was supplied.
	update := domain.ConfigUpdate{MidPctOff: f(0.05)}

	_, rejected := PlanConfigUpdate(baseStore(), update)
	require.NotNil(t, rejected)
	assert.Equal(t, MsgTierOrdering, rejected.Message)
}

func TestPlanConfigUpdate_UnchangedPercentagesSyncNothing(t *testing.T) {
	store := baseStore()
	update := domain.ConfigUpdate{
		LowPctOff: f(store.LowPctOff), MidPctOff: f(store.MidPctOff), HighPctOff: f(store.HighPctOff),
	}

	plan, rejected := PlanConfigUpdate(store, update)
	require.Nil(t, rejected)
	assert.Empty(t, plan.Changes)
}

func TestPlanConfigUpdate_FlagsOnly(t *testing.T) {
	update := domain.ConfigUpdate{UseBirdGame: b(false)}

	plan, rejected := PlanConfigUpdate(baseStore(), update)
	require.Nil(t, rejected)
	assert.Empty(t, plan.Changes)
	assert.False(t, plan.Merged.UseBirdGame)
	assert.True(t, plan.Merged.UseWordGame)
}

func TestPlanConfigUpdate_EmptyUpdateIsNoop(t *testing.T) {
	store := baseStore()
	plan, rejected := PlanConfigUpdate(store, domain.ConfigUpdate{})
	require.Nil(t, rejected)
	assert.Empty(t, plan.Changes)
	assert.Equal(t, store, plan.Merged)
}
