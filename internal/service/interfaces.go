package service

import (
	"context"
	"encoding/json"

	"github.com/popgames/platform/internal/provider"
)

// DiscountSyncer pushes a tier percentage to the external discount system.
// The boolean result mirrors the collaborator's contract: false means the
// discount object rejected the change without a transport error.
type DiscountSyncer interface {
	UpdateDiscountPercentage(ctx context.Context, shop, accessToken, discountID string, pctOff float64) (bool, error)
}

// CustomerAPI is the slice of the commerce API the consent resolver uses.
type CustomerAPI interface {
	FindCustomerByEmail(ctx context.Context, shop, accessToken, email string) (*provider.Customer, error)
	UpdateMarketingConsent(ctx context.Context, shop, accessToken, customerID string) (json.RawMessage, error)
	CreateCustomer(ctx context.Context, shop, accessToken, email string) (json.RawMessage, error)
}

// BillingAPI resolves app-subscription line items for billing linkage.
type BillingAPI interface {
	SubscriptionLineItemID(ctx context.Context, shop, accessToken, subscriptionID string) (string, error)
}
