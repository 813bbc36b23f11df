package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"moviesuggest/internal/metrics"
	"moviesuggest/internal/services"
)

// Client provides access to the TMDB API for movie metadata.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithImageBaseURL overrides the image CDN root used by FormatDetails.
func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.imageBaseURL = base
		}
	}
}

// WithRequestsPerSecond paces outbound requests. rps <= 0 disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds each request. Zero keeps the transport default. A client
// supplied through WithHTTPClient keeps its transport; only a copy is changed.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		bounded := *c.httpClient
		bounded.Timeout = timeout
		c.httpClient = &bounded
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new", "base url required", nil)
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: DefaultImageBaseURL,
		httpClient:   &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie returns the first search hit for title, or nil when TMDB has no match.
func (c *Client) SearchMovie(ctx context.Context, title, language string) (*Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "search", "title must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", title)
	var payload Response
	if err := c.get(ctx, "search", "/search/movie", language, params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	movie := payload.Results[0]
	return &movie, nil
}

// Trailer returns the first YouTube trailer for the movie, or nil when none exists.
func (c *Client) Trailer(ctx context.Context, movieID int64, language string) (*Video, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "trailer", "movie id must be positive", nil)
	}
	var payload videosResponse
	path := "/movie/" + strconv.FormatInt(movieID, 10) + "/videos"
	if err := c.get(ctx, "trailer", path, language, nil, &payload); err != nil {
		return nil, err
	}
	for _, video := range payload.Results {
		if video.Type == videoTypeTrailer && video.Site == videoSiteYouTube {
			found := video
			return &found, nil
		}
	}
	return nil, nil
}

// Trending returns the trending movies for the window in upstream order.
func (c *Client) Trending(ctx context.Context, window TimeWindow, language string) ([]Movie, error) {
	if window == "" {
		window = Day
	}
	if window != Day && window != Week {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "trending", fmt.Sprintf("unsupported window %q", window), nil)
	}
	var payload Response
	if err := c.get(ctx, "trending", "/trending/movie/"+string(window), language, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// Popular returns the popular movies in upstream order.
func (c *Client) Popular(ctx context.Context, language string) ([]Movie, error) {
	var payload Response
	if err := c.get(ctx, "popular", "/movie/popular", language, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// WatchProviders returns the provider bundle for country, or nil when TMDB has
// no availability data for that region.
func (c *Client) WatchProviders(ctx context.Context, movieID int64, country string) (*ProviderBundle, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "providers", "movie id must be positive", nil)
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "providers", "country required", nil)
	}
	var payload watchProvidersResponse
	path := "/movie/" + strconv.FormatInt(movieID, 10) + "/watch/providers"
	if err := c.get(ctx, "providers", path, "", nil, &payload); err != nil {
		return nil, err
	}
	bundle, ok := payload.Results[country]
	if !ok {
		return nil, nil
	}
	return &bundle, nil
}

// FormatDetails maps a movie and optional trailer into a Record using the
// client's image CDN root.
func (c *Client) FormatDetails(movie Movie, trailer *Video) Record {
	return formatDetails(c.imageBaseURL, movie, trailer)
}

// ImageBaseURL returns the configured image CDN root.
func (c *Client) ImageBaseURL() string {
	return c.imageBaseURL
}

func (c *Client) get(ctx context.Context, op, path, language string, params url.Values, target any) (err error) {
	requestStart := time.Now()
	defer func() {
		metrics.RecordUpstreamCall(metrics.UpstreamTMDB, op, time.Since(requestStart), err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return services.Wrap(services.ErrMetadataProvider, "tmdb", op, "rate limiter", err)
		}
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrMetadataProvider, "tmdb", op, "parse url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if language = strings.TrimSpace(language); language != "" {
		params.Set("language", language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrMetadataProvider, "tmdb", op, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrMetadataProvider, "tmdb", op, fmt.Sprintf("execute request (latency=%v)", latency), redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return services.Wrap(services.ErrMetadataProvider, "tmdb", op,
			fmt.Sprintf("returned %d (latency=%v): %s", resp.StatusCode, latency, strings.TrimSpace(string(snippet))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrMetadataProvider, "tmdb", op, "decode response", err)
	}
	return nil
}

// redactURL drops the request URL (which carries the api_key) from transport errors.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
