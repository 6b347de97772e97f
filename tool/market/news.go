package market

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hupe1980/agentswarm/tool"
)

// newsResponse mirrors the subset of the SerpAPI Google News payload we read.
type newsResponse struct {
	NewsResults []struct {
		Title       string `json:"title"`
		Date        string `json:"date"`
		Snippet     string `json:"snippet"`
		Description string `json:"description"`
		LinkText    string `json:"link_text"`
		Source      struct {
			Name    string   `json:"name"`
			Authors []string `json:"authors"`
		} `json:"source"`
	} `json:"news_results"`
	Error string `json:"error"`
}

// NewNewsDigestTool builds the news_digest tool: recent news articles about
// a company or topic.
func NewNewsDigestTool(optFns ...func(o *Options)) *tool.FunctionTool {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SerpAPIKey == "" {
		opts.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Company name or topic to search news for",
			},
		},
		"required": []string{"query"},
	}

	return tool.NewFunctionTool(
		"news_digest",
		"Fetch a digest of recent news articles about a company or topic",
		schema,
		func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return nil, fmt.Errorf("query must be a non-empty string")
			}
			return fetchNews(ctx, opts, query)
		},
	)
}

func fetchNews(ctx context.Context, opts Options, query string) (map[string]any, error) {
	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", query)
	params.Set("gl", "us")
	params.Set("hl", "en")
	params.Set("api_key", opts.SerpAPIKey)

	payload := newsResponse{}
	if err := getJSON(ctx, opts, opts.NewsBaseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("news lookup failed: %s", payload.Error)
	}

	maxItems := opts.MaxNewsItems
	if maxItems <= 0 || maxItems > len(payload.NewsResults) {
		maxItems = len(payload.NewsResults)
	}

	items := make([]map[string]any, 0, maxItems)
	for _, article := range payload.NewsResults[:maxItems] {
		summary := longestOf(article.Snippet, article.Description, article.LinkText)
		if summary == "" {
			summary = article.Title
		}
		if len(article.Source.Authors) > 0 {
			summary = strings.TrimSpace(summary + " By " + strings.Join(article.Source.Authors, ", "))
		}
		items = append(items, map[string]any{
			"title":   strings.TrimSpace(article.Title),
			"date":    normalizeDate(article.Date),
			"summary": summary,
			"source":  article.Source.Name,
		})
	}

	return map[string]any{"query": query, "articles": items}, nil
}

// longestOf picks the longest non-empty candidate, favoring the richest
// available article text for the summary.
func longestOf(candidates ...string) string {
	best := ""
	for _, c := range candidates {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// normalizeDate reformats SerpAPI's "MM/DD/YYYY, ..." dates to ISO; values
// that do not match pass through untouched, an empty date becomes today.
func normalizeDate(raw string) string {
	if raw == "" {
		return time.Now().UTC().Format("2006-01-02")
	}
	datePart := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
	parsed, err := time.Parse("01/02/2006", datePart)
	if err != nil {
		return raw
	}
	return parsed.Format("2006-01-02")
}
