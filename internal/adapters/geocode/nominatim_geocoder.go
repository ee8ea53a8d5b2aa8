package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/luizlzg/itinerary-generator/internal/domain"
	"github.com/luizlzg/itinerary-generator/internal/platform/obs"
)

// NominatimGeocoder resolves place names against a Nominatim-compatible
// /search endpoint, one name per call. Callers are expected to geocode
// sequentially; the public Nominatim instance enforces one request per
// second per client.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	session   *http.Client
}

func NewNominatimGeocoder(baseURL, userAgent string) (*NominatimGeocoder, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("nominatim geocoder: baseURL must be non-empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, fmt.Errorf("nominatim geocoder: userAgent must be non-empty")
	}

	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		session:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a single place name. Transient failures are retried via
// doWithRetry; an empty result set is a hard failure for this name.
func (g *NominatimGeocoder) Geocode(ctx context.Context, name string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	endpoint := g.baseURL + "/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("q", name)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", name, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", name, err)
	}

	if len(decoded) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no results", name)
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid latitude %q", name, decoded[0].Lat)
	}
	lon, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid longitude %q", name, decoded[0].Lon)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
