package domain

import "time"

// Tier identifies one of the three discount levels.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// StoreConfig is a stores row: one per merchant shop, keyed by shop domain.
type StoreConfig struct {
	Shop        string `json:"shop"`
	AccessToken string `json:"-"`

	// Discount fractions (0-1), strictly ascending low < mid < high.
	LowPctOff  float64 `json:"lowPctOff"`
	MidPctOff  float64 `json:"midPctOff"`
	HighPctOff float64 `json:"highPctOff"`

	// Occurrence probabilities (0-1), summing to exactly 1.
	LowProb  float64 `json:"lowProb"`
	MidProb  float64 `json:"midProb"`
	HighProb float64 `json:"highProb"`

	// External discount-code object ids, assigned at install time.
	LowDiscountID  string `json:"lowDiscountId"`
	MidDiscountID  string `json:"midDiscountId"`
	HighDiscountID string `json:"highDiscountId"`

	UseWordGame bool `json:"useWordGame"`
	UseBirdGame bool `json:"useBirdGame"`

	// Subscription linkage.
	BillingID  string     `json:"billingId,omitempty"`
	NextPeriod *time.Time `json:"nextPeriod,omitempty"`

	// Display aggregates, produced by the sales pipeline, read-only here.
	TotalSales   float64 `json:"totalSales"`
	CurrSales    float64 `json:"currSales"`
	CurrencyCode string  `json:"currencyCode"`
	HasCoupon    bool    `json:"hasCoupon"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DiscountID returns the external discount-code id for the given tier.
func (s *StoreConfig) DiscountID(t Tier) string {
	switch t {
	case TierLow:
		return s.LowDiscountID
	case TierMid:
		return s.MidDiscountID
	case TierHigh:
		return s.HighDiscountID
	}
	return ""
}

// DiscountOptions is the storefront projection of the tier configuration.
type DiscountOptions struct {
	LowPctOff  float64 `json:"lowPctOff"`
	MidPctOff  float64 `json:"midPctOff"`
	HighPctOff float64 `json:"highPctOff"`
	LowProb    float64 `json:"lowProb"`
	MidProb    float64 `json:"midProb"`
	HighProb   float64 `json:"highProb"`
}

// GameOptions is the storefront projection of the game-enable flags.
type GameOptions struct {
	UseWordGame bool `json:"useWordGame"`
	UseBirdGame bool `json:"useBirdGame"`
}

// DiscountOptions projects the tier percentages and probabilities.
func (s *StoreConfig) DiscountOptions() DiscountOptions {
	return DiscountOptions{
		LowPctOff:  s.LowPctOff,
		MidPctOff:  s.MidPctOff,
		HighPctOff: s.HighPctOff,
		LowProb:    s.LowProb,
		MidProb:    s.MidProb,
		HighProb:   s.HighProb,
	}
}

// GameOptions projects the game-enable flags.
func (s *StoreConfig) GameOptions() GameOptions {
	return GameOptions{UseWordGame: s.UseWordGame, UseBirdGame: s.UseBirdGame}
}

// ConfigUpdate carries a merchant's proposed configuration changes.
// Nil fields mean "leave unchanged".
type ConfigUpdate struct {
	LowPctOff  *float64
	MidPctOff  *float64
	HighPctOff *float64

	LowProb  *float64
	MidProb  *float64
	HighProb *float64

	UseWordGame *bool
	UseBirdGame *bool
}

// HasProbabilities reports whether any probability field is supplied.
func (u ConfigUpdate) HasProbabilities() bool {
	return u.LowProb != nil || u.MidProb != nil || u.HighProb != nil
}

// HasPercentages reports whether any percentage field is supplied.
func (u ConfigUpdate) HasPercentages() bool {
	return u.LowPctOff != nil || u.MidPctOff != nil || u.HighPctOff != nil
}

// ConfigResult is the merchant-facing outcome of a configuration save.
type ConfigResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
