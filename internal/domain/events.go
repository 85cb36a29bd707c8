package domain

import "time"

// Event types published to the popup.events topic.
const (
	EventPlayRecorded  = "play_recorded"
	EventConsentOptIn  = "consent_opt_in"
	EventConfigUpdated = "config_updated"
	EventBillingLinked = "billing_linked"
)

// Event is the envelope for messages on the popup.events topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Shop       string    `json:"shop,omitempty"`
	Email      string    `json:"email,omitempty"`
	Game       Game      `json:"game,omitempty"`
	Score      int       `json:"score,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
