package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/pricing"
)

const (
	DefaultHNBBaseURL = "https://api.hnb.hr"
	DefaultHNBURIPath = "/tecajn-eur/v3?valuta="
)

// HNBClient reads mid rates from the Croatian National Bank exchange list.
type HNBClient struct {
	baseURL string
	uriPath string
	client  *http.Client
}

type hnbRate struct {
	Currency    string `json:"valuta"`
	BuyingRate  string `json:"kupovni_tecaj"`
	MidRate     string `json:"srednji_tecaj"`
	SellingRate string `json:"prodajni_tecaj"`
}

func NewHNBClient(baseURL, uriPath string, timeout time.Duration) *HNBClient {
	if baseURL == "" {
		baseURL = DefaultHNBBaseURL
	}
	if uriPath == "" {
		uriPath = DefaultHNBURIPath
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HNBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		uriPath: uriPath,
		client:  &http.Client{Timeout: timeout},
	}
}

// MidRate returns the first entry's srednji_tecaj rounded to two places.
func (c *HNBClient) MidRate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	url := c.baseURL + c.uriPath + string(currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get rates from HNB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("HNB API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	var rates []hnbRate
	if err := json.Unmarshal(body, &rates); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse HNB response: %w", err)
	}
	if len(rates) == 0 {
		return decimal.Zero, fmt.Errorf("no exchange rate data found for currency: %s", currency)
	}
	return parseHNBDecimal(rates[0].MidRate)
}

// parseHNBDecimal reads a comma separated decimal such as "1,0825".
func parseHNBDecimal(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", raw, err)
	}
	rate = rate.Round(pricing.Scale)
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive rate %q", raw)
	}
	return rate, nil
}
