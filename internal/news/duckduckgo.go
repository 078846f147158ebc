package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxPages = 5

var vqdPattern = regexp.MustCompile(`vqd=["']?([\d-]+)["']?`)

type ddgResponse struct {
	Results []struct {
		Date    int64  `json:"date"`
		Title   string `json:"title"`
		Excerpt string `json:"excerpt"`
		URL     string `json:"url"`
		Image   string `json:"image"`
		Source  string `json:"source"`
	} `json:"results"`
	Next string `json:"next"`
}

// DuckDuckGo searches DuckDuckGo's news index
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewDuckDuckGo creates a client for the DuckDuckGo instance at baseURL
func NewDuckDuckGo(baseURL string, timeout time.Duration, logger *slog.Logger, tracer trace.Tracer) (*DuckDuckGo, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &DuckDuckGo{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     tracer,
	}, nil
}

// Search returns up to q.MaxResults articles, de-duplicated by URL
func (d *DuckDuckGo) Search(ctx context.Context, q Query) ([]Article, error) {
	ctx, span := d.tracer.Start(ctx, "duckduckgo_news_search", trace.WithAttributes(
		attribute.String("news.query", q.Text()),
		attribute.String("news.region", q.Region),
		attribute.String("news.time_limit", q.TimeLimit),
	))
	defer span.End()

	articles, err := d.search(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("news.results", len(articles)))
	return articles, nil
}

func (d *DuckDuckGo) search(ctx context.Context, q Query) ([]Article, error) {
	query := q.Text()
	vqd, err := d.token(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []Article
	offset := 0
	for page := 0; page < maxPages && len(out) < q.MaxResults; page++ {
		params := url.Values{
			"l":     {q.Region},
			"o":     {"json"},
			"noamp": {"1"},
			"q":     {query},
			"vqd":   {vqd},
			"p":     {"-2"}, // safe search off
			"s":     {fmt.Sprint(offset)},
		}
		if q.TimeLimit != "" {
			params.Set("df", q.TimeLimit)
		}

		var resp ddgResponse
		if err := d.getJSON(ctx, d.baseURL+"/news.js?"+params.Encode(), &resp); err != nil {
			return nil, err
		}
		if len(resp.Results) == 0 {
			break
		}
		for _, r := range resp.Results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			a := Article{
				Title:  r.Title,
				URL:    r.URL,
				Source: r.Source,
				Body:   r.Excerpt,
				Image:  r.Image,
			}
			if r.Date > 0 {
				a.Date = time.Unix(r.Date, 0).UTC().Format(time.RFC3339)
			}
			out = append(out, a)
			if len(out) == q.MaxResults {
				break
			}
		}
		if resp.Next == "" {
			break
		}
		offset += len(resp.Results)
	}

	d.logger.Info("news search completed", "query", query, "region", q.Region, "results", len(out))
	return out, nil
}

// token fetches the per-query vqd token required by the news endpoint
func (d *DuckDuckGo) token(ctx context.Context, query string) (string, error) {
	body, err := d.get(ctx, d.baseURL+"/?"+url.Values{"q": {query}}.Encode())
	if err != nil {
		return "", err
	}
	m := vqdPattern.FindSubmatch(body)
	if m == nil {
		return "", errors.New("failed to extract search token from response")
	}
	return string(m[1]), nil
}

func (d *DuckDuckGo) getJSON(ctx context.Context, rawURL string, v any) error {
	body, err := d.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (d *DuckDuckGo) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) thinkwhy/1.0")
	req.Header.Set("Referer", d.baseURL+"/")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s", resp.Status)
	}
	return body, nil
}
