// Package geocode resolves postal addresses to coordinates through a
// MapQuest-compatible geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bootcamper/internal/domain"
)

// Location is a resolved address.
type Location struct {
	Lat              float64
	Lng              float64
	Street           string
	City             string
	State            string
	Zipcode          string
	Country          string
	FormattedAddress string
}

// Geocoder resolves a free-form address or zipcode.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// Client calls a MapQuest-style geocoding endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			PostalCode string `json:"postalCode"`
			Country    string `json:"adminArea1"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	u := fmt.Sprintf("%s?key=%s&location=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Location{}, domain.UpstreamError{Service: "geocoder", Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, domain.UpstreamError{Service: "geocoder", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, domain.UpstreamError{
			Service: "geocoder",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, domain.UpstreamError{Service: "geocoder", Err: err}
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return Location{}, domain.ValidationError{Field: "address", Msg: "could not be geocoded"}
	}

	loc := body.Results[0].Locations[0]
	return Location{
		Lat:              loc.LatLng.Lat,
		Lng:              loc.LatLng.Lng,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.PostalCode,
		Country:          loc.Country,
		FormattedAddress: loc.Street + ", " + loc.City,
	}, nil
}
