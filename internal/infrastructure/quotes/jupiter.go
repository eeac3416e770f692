package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	market "main/internal/domain/entity/market"

	"github.com/hashicorp/go-retryablehttp"
)

const jupiterSourceName = "jupiter"

// JupiterProvider fetches swap quotes for Solana-listed pairs from a
// Jupiter-compatible aggregator endpoint.
type JupiterProvider struct {
	baseURL string
	client  *http.Client
}

func NewJupiterProvider(baseURL string, timeout time.Duration) *JupiterProvider {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = nil

	return &JupiterProvider{
		baseURL: baseURL,
		client:  retryClient.StandardClient(),
	}
}

func (p *JupiterProvider) Venue() market.Venue { return market.VenueSolana }

func (p *JupiterProvider) Source() string { return jupiterSourceName }

type jupiterQuoteResponse struct {
	InAmount     string  `json:"inAmount"`
	OutAmount    string  `json:"outAmount"`
	PriceImpact  string  `json:"priceImpactPct"`
	PlatformFee  *string `json:"platformFeeAmount"`
	RouteLabels  []struct {
		Label string `json:"label"`
	} `json:"routePlan"`
}

func (p *JupiterProvider) Quote(ctx context.Context, pair market.TradingPair, inputAmount float64) (*market.Quote, error) {
	endpoint, err := url.Parse(p.baseURL + "/quote")
	if err != nil {
		return nil, fmt.Errorf("parse quote endpoint: %w", err)
	}
	params := endpoint.Query()
	params.Set("outputMint", pair.ContractRef)
	params.Set("amount", strconv.FormatFloat(inputAmount, 'f', -1, 64))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}

	var payload jupiterQuoteResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	return payload.toQuote()
}

func (r *jupiterQuoteResponse) toQuote() (*market.Quote, error) {
	in, err := strconv.ParseFloat(r.InAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("parse inAmount: %w", err)
	}
	out, err := strconv.ParseFloat(r.OutAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("parse outAmount: %w", err)
	}
	impact, err := strconv.ParseFloat(r.PriceImpact, 64)
	if err != nil {
		return nil, fmt.Errorf("parse priceImpactPct: %w", err)
	}

	quote := &market.Quote{
		InputAmount:        in,
		OutputAmount:       out,
		PriceImpactPercent: impact * 100,
	}
	if r.PlatformFee != nil {
		fee, err := strconv.ParseFloat(*r.PlatformFee, 64)
		if err != nil {
			return nil, fmt.Errorf("parse platformFeeAmount: %w", err)
		}
		quote.FeeAmount = fee
	}
	for _, hop := range r.RouteLabels {
		quote.Route = append(quote.Route, hop.Label)
	}
	return quote, nil
}
