package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "shinryeong/1.0"
)

// NominatimSettings configures the OpenStreetMap search client.
type NominatimSettings struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds a single lookup including retries (default: 5s)
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt (default: 2)
	RetryMax int
}

func DefaultNominatimSettings() NominatimSettings {
	return NominatimSettings{
		BaseURL:   DefaultNominatimURL,
		UserAgent: defaultUserAgent,
		Timeout:   5 * time.Second,
		RetryMax:  2,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatim struct {
	httpClient *http.Client
	settings   NominatimSettings
}

func NewNominatim(settings NominatimSettings) Resolver {
	if settings.BaseURL == "" {
		settings.BaseURL = DefaultNominatimURL
	}
	if settings.UserAgent == "" {
		settings.UserAgent = defaultUserAgent
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 5 * time.Second
	}

	return &nominatim{
		httpClient: retryablehttp.NewClient().HTTPClient,
		settings:   settings,
	}
}

// client builds a retrying client that logs through the request logger and
// shares one pooled transport across lookups.
func (n *nominatim) client(logger *zerolog.Logger) *retryablehttp.Client {
	return &retryablehttp.Client{
		HTTPClient:   n.httpClient,
		Logger:       retryLogger{logger: logger},
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RetryMax:     n.settings.RetryMax,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
	}
}

// retryLogger forwards retryablehttp's leveled messages to the request logger.
type retryLogger struct {
	logger *zerolog.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.logger.Error().Fields(kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.logger.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.logger.Debug().Fields(kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn().Fields(kv).Msg(msg) }

func (n *nominatim) Resolve(ctx context.Context, place string) (domain.Location, error) {
	logger := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, n.settings.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := n.settings.BaseURL + "/search?" + q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", n.settings.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client(logger).Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("place", place).Msg("geocoding request failed")
		return domain.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Location{}, fmt.Errorf("geocoding service returned %s", resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Location{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(places) == 0 {
		return domain.Location{}, notFound(place)
	}

	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocoding response has invalid longitude %q: %w", places[0].Lon, err)
	}
	lat, _ := strconv.ParseFloat(places[0].Lat, 64)

	logger.Debug().
		Str("place", place).
		Str("match", places[0].DisplayName).
		Float64("longitude", lon).
		Msg("geocoded place")

	return domain.Location{
		Name:      places[0].DisplayName,
		Longitude: lon,
		Latitude:  lat,
		Source:    "nominatim",
	}, nil
}
