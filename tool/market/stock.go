package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hupe1980/agentswarm/tool"
)

// quoteResponse mirrors the subset of the Yahoo Finance chart payload we read.
type quoteResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol              string  `json:"symbol"`
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
				Currency            string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// summaryResponse mirrors the subset of the Yahoo Finance quoteSummary
// payload carrying the valuation metrics the chart endpoint lacks.
type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				ForwardPE struct {
					Raw *float64 `json:"raw"`
				} `json:"forwardPE"`
				MarketCap struct {
					Raw *float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// NewStockQuoteTool builds the stock_quote tool: latest price, volume and
// valuation metrics for a ticker symbol.
func NewStockQuoteTool(optFns ...func(o *Options)) *tool.FunctionTool {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "Stock ticker symbol (e.g. 'TSLA')",
			},
		},
		"required": []string{"symbol"},
	}

	return tool.NewFunctionTool(
		"stock_quote",
		"Look up the latest market price, volume, PE ratio and market cap for a stock ticker symbol",
		schema,
		func(ctx context.Context, args map[string]any) (any, error) {
			symbol, _ := args["symbol"].(string)
			if symbol == "" {
				return nil, fmt.Errorf("symbol must be a non-empty string")
			}
			return fetchQuote(ctx, opts, symbol)
		},
	)
}

func fetchQuote(ctx context.Context, opts Options, symbol string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/%s", opts.QuoteBaseURL, url.PathEscape(symbol))
	payload := quoteResponse{}
	if err := getJSON(ctx, opts, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("quote lookup failed: %s", payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no quote data for symbol %q", symbol)
	}

	peRatio, marketCap := fetchValuation(ctx, opts, symbol)

	meta := payload.Chart.Result[0].Meta
	return map[string]any{
		"symbol":       meta.Symbol,
		"price":        meta.RegularMarketPrice,
		"volume":       meta.RegularMarketVolume,
		"pe_ratio":     peRatio,
		"market_cap":   marketCap,
		"currency":     meta.Currency,
		"last_updated": time.Now().UTC().Format("2006-01-02 15:04:05"),
	}, nil
}

// fetchValuation looks up forward PE and market cap from the quoteSummary
// endpoint. A failed or incomplete lookup yields explicit nulls rather than
// failing the quote: the price data is still useful on its own.
func fetchValuation(ctx context.Context, opts Options, symbol string) (peRatio, marketCap any) {
	endpoint := fmt.Sprintf("%s/%s?modules=summaryDetail", opts.SummaryBaseURL, url.PathEscape(symbol))
	payload := summaryResponse{}
	if err := getJSON(ctx, opts, endpoint, &payload); err != nil {
		return nil, nil
	}
	if payload.QuoteSummary.Error != nil || len(payload.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	detail := payload.QuoteSummary.Result[0].SummaryDetail
	if detail.ForwardPE.Raw != nil {
		peRatio = *detail.ForwardPE.Raw
	}
	if detail.MarketCap.Raw != nil {
		marketCap = *detail.MarketCap.Raw
	}
	return peRatio, marketCap
}

func getJSON(ctx context.Context, opts Options, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "agentswarm/1.0")

	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("response decode failed: %w", err)
	}
	return nil
}
