package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/popgames/platform/internal/domain"
	"github.com/popgames/platform/internal/guard"
)

// Marketing consent states as reported by the commerce API.
const (
	StateSubscribed    = "SUBSCRIBED"
	StateNotSubscribed = "NOT_SUBSCRIBED"
	StateUnsubscribed  = "UNSUBSCRIBED"
)

// AdminClient calls the Shopify admin GraphQL API on behalf of a shop.
// Calls are guarded by a per-shop circuit breaker so a broken shop
// installation cannot tie up storefront requests.
type AdminClient struct {
	apiVersion string
	client     *http.Client
	breaker    *guard.CircuitBreaker
	logger     *slog.Logger

	// baseURL overrides the per-shop endpoint in tests.
	baseURL string
}

// NewAdminClient creates a Shopify admin API client.
func NewAdminClient(apiVersion string, breaker *guard.CircuitBreaker, logger *slog.Logger) *AdminClient {
	return &AdminClient{
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *AdminClient) endpoint(shop string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// postGraphQL posts one GraphQL document and decodes the typed response.
func postGraphQL[T any](ctx context.Context, c *AdminClient, shop, accessToken, query string, variables any) (*graphQLResponse[T], error) {
	if res := c.breaker.Check(ctx, shop); !res.Allowed {
		return nil, domain.ErrUnavailable(res.Reason)
	}

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(shop), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure(shop)
		return nil, fmt.Errorf("admin api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.breaker.RecordFailure(shop)
		return nil, fmt.Errorf("admin api returned %d", resp.StatusCode)
	}

	var out graphQLResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.breaker.RecordFailure(shop)
		return nil, fmt.Errorf("decode admin api response: %w", err)
	}

	if len(out.Errors) > 0 {
		c.breaker.RecordFailure(shop)
		return nil, fmt.Errorf("admin api error: %s", out.Errors[0].Message)
	}

	c.breaker.RecordSuccess(shop)
	return &out, nil
}

// UpdateDiscountPercentage updates a code discount to the given fraction off.
// Returns false when the API reports user errors for the discount object.
func (c *AdminClient) UpdateDiscountPercentage(ctx context.Context, shop, accessToken, discountID string, pctOff float64) (bool, error) {
	const mutation = `
		mutation discountCodeBasicUpdate($id: ID!, $basicCodeDiscount: DiscountCodeBasicInput!) {
			discountCodeBasicUpdate(id: $id, basicCodeDiscount: $basicCodeDiscount) {
				codeDiscountNode { id }
				userErrors { field message }
			}
		}`

	type payload struct {
		DiscountCodeBasicUpdate struct {
			CodeDiscountNode *struct {
				ID string `json:"id"`
			} `json:"codeDiscountNode"`
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"discountCodeBasicUpdate"`
	}

	variables := map[string]any{
		"id": discountID,
		"basicCodeDiscount": map[string]any{
			"customerGets": map[string]any{
				"value": map[string]any{
					"percentage": pctOff,
				},
			},
		},
	}

	resp, err := postGraphQL[payload](ctx, c, shop, accessToken, mutation, variables)
	if err != nil {
		return false, err
	}
	if errs := resp.Data.DiscountCodeBasicUpdate.UserErrors; len(errs) > 0 {
		c.logger.Warn("discount update rejected", "shop", shop, "discount_id", discountID, "reason", errs[0].Message)
		return false, nil
	}
	return true, nil
}

// Customer is the subset of the commerce customer record the resolver needs.
type Customer struct {
	ID             string
	MarketingState string
}

// FindCustomerByEmail returns the first customer matching the email, or nil.
// No de-duplication is attempted when multiple records match.
func (c *AdminClient) FindCustomerByEmail(ctx context.Context, shop, accessToken, email string) (*Customer, error) {
	const query = `
		query queryCustomers($query: String!) {
			customers(first: 10, query: $query) {
				edges {
					node {
						id
						emailMarketingConsent {
							marketingState
						}
					}
				}
			}
		}`

	type payload struct {
		Customers struct {
			Edges []struct {
				Node struct {
					ID                    string `json:"id"`
					EmailMarketingConsent *struct {
						MarketingState string `json:"marketingState"`
					} `json:"emailMarketingConsent"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}

	resp, err := postGraphQL[payload](ctx, c, shop, accessToken, query, map[string]any{"query": "email:" + email})
	if err != nil {
		return nil, err
	}

	edges := resp.Data.Customers.Edges
	if len(edges) == 0 {
		return nil, nil
	}

	cust := &Customer{ID: edges[0].Node.ID}
	if consent := edges[0].Node.EmailMarketingConsent; consent != nil {
		cust.MarketingState = consent.MarketingState
	}
	return cust, nil
}

// UpdateMarketingConsent sets an existing customer's consent to SUBSCRIBED
// with single opt-in.
func (c *AdminClient) UpdateMarketingConsent(ctx context.Context, shop, accessToken, customerID string) (json.RawMessage, error) {
	const mutation = `
		mutation customerEmailMarketingConsentUpdate($input: CustomerEmailMarketingConsentUpdateInput!) {
			customerEmailMarketingConsentUpdate(input: $input) {
				customer { id }
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"input": map[string]any{
			"customerId": customerID,
			"emailMarketingConsent": map[string]any{
				"marketingState":      StateSubscribed,
				"marketingOptInLevel": "SINGLE_OPT_IN",
			},
		},
	}

	resp, err := postGraphQL[json.RawMessage](ctx, c, shop, accessToken, mutation, variables)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateCustomer creates a customer with consent pre-set to SUBSCRIBED.
func (c *AdminClient) CreateCustomer(ctx context.Context, shop, accessToken, email string) (json.RawMessage, error) {
	const mutation = `
		mutation customerCreate($input: CustomerInput!) {
			customerCreate(input: $input) {
				customer { email }
				userErrors { field message }
			}
		}`

	variables := map[string]any{
		"input": map[string]any{
			"email": email,
			"emailMarketingConsent": map[string]any{
				"marketingState":      StateSubscribed,
				"marketingOptInLevel": "SINGLE_OPT_IN",
			},
		},
	}

	resp, err := postGraphQL[json.RawMessage](ctx, c, shop, accessToken, mutation, variables)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SubscriptionLineItemID resolves the first line item id of an app subscription.
func (c *AdminClient) SubscriptionLineItemID(ctx context.Context, shop, accessToken, subscriptionID string) (string, error) {
	const query = `
		query appSubscription($id: ID!) {
			node(id: $id) {
				... on AppSubscription {
					lineItems { id }
				}
			}
		}`

	type payload struct {
		Node struct {
			LineItems []struct {
				ID string `json:"id"`
			} `json:"lineItems"`
		} `json:"node"`
	}

	resp, err := postGraphQL[payload](ctx, c, shop, accessToken, query, map[string]any{"id": subscriptionID})
	if err != nil {
		return "", err
	}
	if len(resp.Data.Node.LineItems) == 0 {
		return "", fmt.Errorf("subscription %s has no line items", subscriptionID)
	}
	return resp.Data.Node.LineItems[0].ID, nil
}
