package forkify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"forkify/internal/platform/cache"
	"forkify/internal/recipe"
)

// DefaultBaseURL is the public recipe API.
const DefaultBaseURL = "https://forkify-api.herokuapp.com/api"

// ErrNotFound is returned when the API has no recipe for an id or no results
// for a query.
var ErrNotFound = errors.New("recipe not found")

// Client is a client for the recipe search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache caches raw responses for ttl.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = ch
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiSummary struct {
	RecipeID  string `json:"recipe_id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ImageURL  string `json:"image_url"`
}

type searchResponse struct {
	Count   int          `json:"count"`
	Recipes []apiSummary `json:"recipes"`
	Error   string       `json:"error"`
}

type apiRecipe struct {
	apiSummary
	SourceURL   string   `json:"source_url"`
	Ingredients []string `json:"ingredients"`
}

type getResponse struct {
	Recipe *apiRecipe `json:"recipe"`
	Error  string     `json:"error"`
}

// Search returns the summaries matching query.
func (c *Client) Search(ctx context.Context, query string) ([]recipe.Summary, error) {
	q := url.Values{"q": {query}}
	body, err := c.get(ctx, "/search", q, "search:"+strings.ToLower(query))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
	}

	results := make([]recipe.Summary, 0, len(resp.Recipes))
	for _, r := range resp.Recipes {
		results = append(results, recipe.Summary{
			ID:        r.RecipeID,
			Title:     r.Title,
			Publisher: r.Publisher,
			Image:     r.ImageURL,
		})
	}
	return results, nil
}

// GetRecipe fetches a recipe by id. The ingredient descriptions are parsed
// into structured ingredients.
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	q := url.Values{"rId": {id}}
	body, err := c.get(ctx, "/get", q, "recipe:"+id)
	if err != nil {
		return nil, err
	}

	var resp getResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode recipe response: %w", err)
	}
	if resp.Error != "" || resp.Recipe == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r := &recipe.Recipe{
		ID:     resp.Recipe.RecipeID,
		Title:  resp.Recipe.Title,
		Author: resp.Recipe.Publisher,
		Img:    resp.Recipe.ImageURL,
		URL:    resp.Recipe.SourceURL,
	}
	if r.ID == "" {
		r.ID = id
	}
	r.ParseIngredients(resp.Recipe.Ingredients)
	return r, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, cacheKey string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			c.logger.Warn("cache lookup failed", zap.String("key", cacheKey), zap.Error(err))
		} else if ok {
			c.logger.Debug("cache hit", zap.String("key", cacheKey))
			return body, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("recipe api request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "error") {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL); err != nil {
			c.logger.Warn("cache store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return body, nil
}
