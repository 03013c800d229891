package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PlatformConfigClient reads marketplace-wide settings from the platform
// configuration service. Values are cached with a TTL so every checkout does
// not round-trip.
//
// FeePercentage deliberately returns a nil pointer when the platform has no
// fee configured; callers must treat that as unpriceable rather than
// substituting a default.
type PlatformConfigClient struct {
	httpClient *HttpClient
	cacheTTL   time.Duration

	mu        sync.Mutex
	cached    *platformSettings
	fetchedAt time.Time
}

type platformSettings struct {
	FeePercent        *decimal.Decimal
	AdvanceWindowDays int
}

type platformSettingsDoc struct {
	BookingFeePercent *string `json:"booking_fee_percent"`
	AdvanceWindowDays *int    `json:"advance_window_days"`
}

func NewPlatformConfigClient(baseURL string, cacheTTL time.Duration) *PlatformConfigClient {
	return &PlatformConfigClient{
		httpClient: NewHttpClient(baseURL),
		cacheTTL:   cacheTTL,
	}
}

// FeePercentage returns the platform booking fee percent, or nil when none
// is configured upstream.
func (c *PlatformConfigClient) FeePercentage(ctx context.Context) (*decimal.Decimal, error) {
	settings, err := c.settings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.FeePercent, nil
}

// AdvanceWindowDays returns how far ahead customers may book, or 0 when the
// platform does not constrain it.
func (c *PlatformConfigClient) AdvanceWindowDays(ctx context.Context) (int, error) {
	settings, err := c.settings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.AdvanceWindowDays, nil
}

func (c *PlatformConfigClient) settings(ctx context.Context) (*platformSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.cached, nil
	}

	resp, err := c.httpClient.GET(ctx, "/api/v1/settings/booking")
	if err != nil {
		// Serve the stale cache over failing the checkout outright.
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, fmt.Errorf("platform config request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, fmt.Errorf("platform config returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	payload := json.RawMessage(resp.Body)
	if err := json.Unmarshal(resp.Body, &wrapper); err == nil && len(wrapper.Data) > 0 {
		payload = wrapper.Data
	}

	var doc platformSettingsDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("could not decode platform settings:\n%+v\n%s", resp.ToString(), err)
	}

	settings := &platformSettings{}
	if doc.BookingFeePercent != nil {
		percent, err := decimal.NewFromString(*doc.BookingFeePercent)
		if err != nil {
			return nil, fmt.Errorf("invalid booking_fee_percent %q: %w", *doc.BookingFeePercent, err)
		}
		settings.FeePercent = &percent
	}
	if doc.AdvanceWindowDays != nil {
		settings.AdvanceWindowDays = *doc.AdvanceWindowDays
	}

	c.cached = settings
	c.fetchedAt = time.Now()
	return settings, nil
}
