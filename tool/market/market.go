// Package market provides ready-made market research tools: a stock quote
// lookup backed by the Yahoo Finance chart endpoint and a news digest backed
// by the SerpAPI Google News engine. Both are plain FunctionTools; network
// failures surface as tool execution errors that the issuing agent sees and
// may recover from.
package market

import (
	"net/http"
	"time"
)

// Options configure the market tools (shared HTTP client, endpoints, keys).
type Options struct {
	// HTTPClient performs the outbound requests. Defaults to a client with
	// a 10s timeout; the invoker's per-call timeout still applies on top.
	HTTPClient *http.Client
	// QuoteBaseURL overrides the quote endpoint (tests point it at a stub).
	QuoteBaseURL string
	// SummaryBaseURL overrides the valuation metrics endpoint.
	SummaryBaseURL string
	// NewsBaseURL overrides the news endpoint (tests point it at a stub).
	NewsBaseURL string
	// SerpAPIKey authenticates news lookups. Defaults to the SERPAPI_KEY
	// environment variable when empty.
	SerpAPIKey string
	// MaxNewsItems caps the number of returned articles.
	MaxNewsItems int
}

func defaultOptions() Options {
	return Options{
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		QuoteBaseURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
		SummaryBaseURL: "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
		NewsBaseURL:    "https://serpapi.com/search.json",
		MaxNewsItems:   3,
	}
}
