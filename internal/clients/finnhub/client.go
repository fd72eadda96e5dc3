// Package finnhub provides a client for the Finnhub market news API
package finnhub

import (
	"context"
	"fmt"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"golang.org/x/time/rate"

	"github.com/finsight-app/finsight/internal/common"
	"github.com/finsight-app/finsight/internal/interfaces"
	"github.com/finsight-app/finsight/internal/models"
)

const (
	DefaultRateLimit    = 10 // requests per second
	DefaultLookbackDays = 5
)

// Client implements the NewsClient interface
type Client struct {
	api          *finnhub.DefaultApiService
	logger       *common.Logger
	limiter      *rate.Limiter
	lookbackDays int
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLookbackDays sets how far back company news queries reach
func WithLookbackDays(days int) ClientOption {
	return func(c *Client) {
		if days > 0 {
			c.lookbackDays = days
		}
	}
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)

	c := &Client{
		api:          finnhub.NewAPIClient(cfg).DefaultApi,
		logger:       common.NewSilentLogger(),
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		lookbackDays: DefaultLookbackDays,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetCompanyNews retrieves recent news for the given symbols, newest first,
// capped at limit across all symbols.
func (c *Client) GetCompanyNews(ctx context.Context, symbols []string, limit int) ([]models.NewsArticle, error) {
	from := time.Now().AddDate(0, 0, -c.lookbackDays).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")

	var articles []models.NewsArticle
	for _, symbol := range symbols {
		if limit > 0 && len(articles) >= limit {
			break
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		news, _, err := c.api.CompanyNews(ctx).Symbol(symbol).From(from).To(to).Execute()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch company news for %s: %w", symbol, err)
		}

		articles = append(articles, mapNews(news)...)
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// GetMarketNews retrieves recent general market news.
func (c *Client) GetMarketNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	news, _, err := c.api.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market news: %w", err)
	}

	articles := mapNews(news)
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// mapNews converts Finnhub news records into the internal article shape.
func mapNews(news []finnhub.News) []models.NewsArticle {
	articles := make([]models.NewsArticle, 0, len(news))
	for _, item := range news {
		a := models.NewsArticle{}

		if item.Headline != nil {
			a.Headline = *item.Headline
		}
		if item.Summary != nil {
			a.Summary = *item.Summary
		}
		if item.Source != nil {
			a.Source = *item.Source
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0).UTC()
		}
		if item.Related != nil && *item.Related != "" {
			a.Related = strings.Split(*item.Related, ",")
		}

		articles = append(articles, a)
	}
	return articles
}

// Ensure Client implements NewsClient
var _ interfaces.NewsClient = (*Client)(nil)
