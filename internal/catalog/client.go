package catalog

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

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

// ResponseCache is the subset of cache.Cache the client uses.
type ResponseCache interface {
	GetRecord(ctx context.Context, kind domain.Kind, language, title string) (*domain.CatalogRecord, error)
	SetRecord(ctx context.Context, kind domain.Kind, language, title string, rec *domain.CatalogRecord) error
	GetProviders(ctx context.Context, kind domain.Kind, catalogID int64, region string) ([]domain.Provider, bool, error)
	SetProviders(ctx context.Context, kind domain.Kind, catalogID int64, region string, providers []domain.Provider) error
}

type Options struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	ImageSize    string
	Language     string
	Region       string
	Timeout      time.Duration
	Cache        ResponseCache
	HTTPClient   *http.Client
}

// Client talks to the TMDB v3 API. Lookups never return errors: a failed
// request is logged and reported as "no match" so callers can carry on.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	imageSize    string
	language     string
	region       string
	cache        ResponseCache
	httpClient   *http.Client
	log          *logrus.Entry
}

func NewClient(opts Options, logger *logrus.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		apiKey:       opts.APIKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		imageSize:    opts.ImageSize,
		language:     opts.Language,
		region:       opts.Region,
		cache:        opts.Cache,
		httpClient:   httpClient,
		log:          logger.WithField("component", "catalog"),
	}
}

// APIError is a non-2xx answer from the catalog.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog %s: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog %s: status %d", e.Path, e.StatusCode)
}

func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

// ImageURL builds the poster URL for a relative image path.
func (c *Client) ImageURL(path string) string {
	return c.imageBaseURL + "/" + c.imageSize + path
}

func (c *Client) SearchMovie(ctx context.Context, title string) *domain.CatalogRecord {
	return c.search(ctx, domain.KindMovie, title)
}

func (c *Client) SearchSeries(ctx context.Context, title string) *domain.CatalogRecord {
	return c.search(ctx, domain.KindSeries, title)
}

func (c *Client) search(ctx context.Context, kind domain.Kind, title string) *domain.CatalogRecord {
	log := c.log.WithFields(logrus.Fields{"kind": kind, "title": title})

	if c.cache != nil {
		rec, err := c.cache.GetRecord(ctx, kind, c.language, title)
		if err != nil {
			log.WithError(err).Warn("catalog cache read failed")
		}
		if rec != nil {
			return rec
		}
	}

	rec, err := c.lookup(ctx, kind, title)
	if err != nil {
		log.WithError(err).Warn("catalog search failed")
		return nil
	}
	if rec == nil {
		log.Debug("no catalog match")
		return nil
	}

	if c.cache != nil {
		if err := c.cache.SetRecord(ctx, kind, c.language, title, rec); err != nil {
			log.WithError(err).Warn("catalog cache write failed")
		}
	}
	return rec
}

// lookup takes the first search hit and fetches its full details.
func (c *Client) lookup(ctx context.Context, kind domain.Kind, title string) (*domain.CatalogRecord, error) {
	segment := pathSegment(kind)

	var found searchResponse
	err := c.get(ctx, "/search/"+segment, searchParams{APIKey: c.apiKey, Query: title, Language: c.language}, &found)
	if err != nil {
		return nil, err
	}
	if len(found.Results) == 0 {
		return nil, nil
	}

	detailPath := fmt.Sprintf("/%s/%d", segment, found.Results[0].ID)
	params := detailParams{APIKey: c.apiKey, Language: c.language}

	if kind == domain.KindSeries {
		var details seriesDetails
		if err := c.get(ctx, detailPath, params, &details); err != nil {
			return nil, err
		}
		return details.record(), nil
	}

	var details movieDetails
	if err := c.get(ctx, detailPath, params, &details); err != nil {
		return nil, err
	}
	return details.record(), nil
}

// Providers lists where the title can be watched in the configured region:
// subscription offers first, then rentals, then purchases.
func (c *Client) Providers(ctx context.Context, catalogID int64, kind domain.Kind) []domain.Provider {
	log := c.log.WithFields(logrus.Fields{"kind": kind, "tmdb_id": catalogID})

	if c.cache != nil {
		providers, found, err := c.cache.GetProviders(ctx, kind, catalogID, c.region)
		if err != nil {
			log.WithError(err).Warn("catalog cache read failed")
		}
		if found {
			return providers
		}
	}

	var resp providersResponse
	path := fmt.Sprintf("/%s/%d/watch/providers", pathSegment(kind), catalogID)
	if err := c.get(ctx, path, providerParams{APIKey: c.apiKey}, &resp); err != nil {
		log.WithError(err).Warn("watch providers lookup failed")
		return []domain.Provider{}
	}

	providers := resp.flatten(c.region)

	if c.cache != nil {
		if err := c.cache.SetProviders(ctx, kind, catalogID, c.region, providers); err != nil {
			log.WithError(err).Warn("catalog cache write failed")
		}
	}
	return providers
}

func (c *Client) get(ctx context.Context, path string, params any, target any) error {
	v, err := query.Values(params)
	if err != nil {
		return fmt.Errorf("encode query for %s: %w", path, err)
	}

	fullURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid catalog URL: %w", err)
	}
	fullURL.RawQuery = v.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
		var status statusResponse
		if json.Unmarshal(body, &status) == nil {
			apiErr.Message = status.StatusMessage
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func pathSegment(kind domain.Kind) string {
	if kind == domain.KindSeries {
		return "tv"
	}
	return "movie"
}
