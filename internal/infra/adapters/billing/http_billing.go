package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tiered-subscription-service/internal/domain/ports/adapter"
)

var _ adapter.BillingGateway = (*HTTPGateway)(nil)

// HTTPGateway talks to the external billing system over JSON/HTTP:
//
//	POST {base}/payments                      {"user_id","tier"}
//	POST {base}/subscriptions/{id}/cancel     {}
//	POST {base}/subscriptions/{id}/upgrade    {"new_tier"}
//
// Each call is a single attempt. The manager never retries, so neither
// does this client; a caller-supplied context deadline bounds slow
// integrations.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) (*HTTPGateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid billing base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPGateway{
		baseURL: u.String(),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (g *HTTPGateway) Name() string { return "http" }

func (g *HTTPGateway) ProcessPayment(ctx context.Context, userID, tierName string) error {
	return g.post(ctx, "/payments", map[string]string{
		"user_id": userID,
		"tier":    tierName,
	})
}

func (g *HTTPGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return g.post(ctx, "/subscriptions/"+url.PathEscape(subscriptionID)+"/cancel", map[string]string{})
}

func (g *HTTPGateway) UpgradePlan(ctx context.Context, subscriptionID, newTierName string) error {
	return g.post(ctx, "/subscriptions/"+url.PathEscape(subscriptionID)+"/upgrade", map[string]string{
		"new_tier": newTierName,
	})
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("billing response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Status != "ok" {
		if out.Error != "" {
			return errors.New("billing: " + out.Error)
		}
		return fmt.Errorf("billing: status %d", resp.StatusCode)
	}
	return nil
}
