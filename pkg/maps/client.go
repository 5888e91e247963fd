package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
)

const (
	defaultPlacesBaseURL        = "https://places.googleapis.com/v1"
	defaultRoutesBaseURL        = "https://routes.googleapis.com"
	autocompleteFieldMask       = "suggestions.placePrediction.placeId,suggestions.placePrediction.text"
	placeResolveFieldMask       = "id,formattedAddress,location,addressComponents"
	routeMatrixFieldMask        = "originIndex,destinationIndex,distanceMeters,duration,condition"
	requestBodyReadLimit  int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("google maps api key is required")
)

// Client wraps the Google Maps Places and Routes APIs used for address
// guidance and delivery distance estimates.
type Client struct {
	httpClient    *http.Client
	placesBaseURL string
	routesBaseURL string
	apiKey        string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPlacesBaseURL overrides the configured Places base URL.
func WithPlacesBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.placesBaseURL = trimmed
		}
	}
}

// WithRoutesBaseURL overrides the configured Routes base URL.
func WithRoutesBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.routesBaseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:        trimmedKey,
		placesBaseURL: defaultPlacesBaseURL,
		routesBaseURL: defaultRoutesBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.placesBaseURL == "" {
		client.placesBaseURL = defaultPlacesBaseURL
	}
	if client.routesBaseURL == "" {
		client.routesBaseURL = defaultRoutesBaseURL
	}

	return client, nil
}

// AutocompleteRequest describes the payload sent to the Places autocomplete API.
type AutocompleteRequest struct {
	Input               string   `json:"input"`
	IncludedRegionCodes []string `json:"includedRegionCodes,omitempty"`
	LanguageCode        string   `json:"languageCode,omitempty"`
}

// AutocompleteSuggestion holds the mapped data returned by the autocomplete API.
type AutocompleteSuggestion struct {
	PlaceID     string
	Description string
}

// PlaceDetails represents the normalized data returned by the place-details API.
type PlaceDetails struct {
	PlaceID           string
	FormattedAddress  string
	Location          LatLng
	AddressComponents []AddressComponent
}

// LatLng is the latitude/longitude pair returned by Google.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// AddressComponent mirrors Google's address component payload.
type AddressComponent struct {
	LongName  string
	ShortName string
	Types     []string
}

// MatrixElement is one origin/destination cell of a route matrix response.
type MatrixElement struct {
	OriginIndex      int
	DestinationIndex int
	DistanceMeters   int
	Duration         time.Duration
}

// Autocomplete queries suggested places based on partial input.
func (c *Client) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]AutocompleteSuggestion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNetwork, "google maps client not configured")
	}
	if strings.TrimSpace(req.Input) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "autocomplete input is required")
	}

	body, err := c.post(ctx, c.placesURL("places:autocomplete"), autocompleteFieldMask, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var apiResp struct {
		Suggestions []struct {
			Prediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode autocomplete response")
	}

	suggestions := make([]AutocompleteSuggestion, 0, len(apiResp.Suggestions))
	for _, s := range apiResp.Suggestions {
		suggestions = append(suggestions, AutocompleteSuggestion{
			PlaceID:     s.Prediction.PlaceID,
			Description: s.Prediction.Text.Text,
		})
	}

	return suggestions, nil
}

// ResolvePlace fetches the canonical place data for the provided place ID.
func (c *Client) ResolvePlace(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNetwork, "google maps client not configured")
	}
	trimmed := strings.TrimSpace(placeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "place ID is required")
	}

	reqURL := fmt.Sprintf("%s/places/%s", strings.TrimRight(c.placesBaseURL, "/"), url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "build place resolve request")
	}

	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", placeResolveFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute place resolve request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "place resolve request failed")
	}

	var apiResp struct {
		ID               string `json:"id"`
		FormattedAddress string `json:"formattedAddress"`
		Location         struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		AddressComponents []struct {
			LongName  string   `json:"longText"`
			ShortName string   `json:"shortText"`
			Types     []string `json:"types"`
		} `json:"addressComponents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode place resolve response")
	}

	components := make([]AddressComponent, 0, len(apiResp.AddressComponents))
	for _, comp := range apiResp.AddressComponents {
		components = append(components, AddressComponent{
			LongName:  comp.LongName,
			ShortName: comp.ShortName,
			Types:     comp.Types,
		})
	}

	return &PlaceDetails{
		PlaceID:          apiResp.ID,
		FormattedAddress: apiResp.FormattedAddress,
		Location: LatLng{
			Latitude:  apiResp.Location.Latitude,
			Longitude: apiResp.Location.Longitude,
		},
		AddressComponents: components,
	}, nil
}

// RouteMatrix computes road distance and duration between every origin and
// destination pair using the Routes API.
func (c *Client) RouteMatrix(ctx context.Context, origins, destinations []LatLng) ([]MatrixElement, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNetwork, "google maps client not configured")
	}
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origins and destinations are required")
	}

	req := routeMatrixRequest{
		Origins:      waypoints(origins),
		Destinations: waypoints(destinations),
		TravelMode:   "DRIVE",
	}

	body, err := c.post(ctx, c.routesURL("distanceMatrix/v2:computeRouteMatrix"), routeMatrixFieldMask, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var apiResp []struct {
		OriginIndex      int    `json:"originIndex"`
		DestinationIndex int    `json:"destinationIndex"`
		DistanceMeters   int    `json:"distanceMeters"`
		Duration         string `json:"duration"`
		Condition        string `json:"condition"`
	}
	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode route matrix response")
	}

	elements := make([]MatrixElement, 0, len(apiResp))
	for _, cell := range apiResp {
		if cell.Condition != "" && cell.Condition != "ROUTE_EXISTS" {
			continue
		}
		duration, _ := time.ParseDuration(cell.Duration)
		elements = append(elements, MatrixElement{
			OriginIndex:      cell.OriginIndex,
			DestinationIndex: cell.DestinationIndex,
			DistanceMeters:   cell.DistanceMeters,
			Duration:         duration,
		})
	}

	return elements, nil
}

type routeMatrixRequest struct {
	Origins      []matrixWaypoint `json:"origins"`
	Destinations []matrixWaypoint `json:"destinations"`
	TravelMode   string           `json:"travelMode"`
}

type matrixWaypoint struct {
	Waypoint struct {
		Location struct {
			LatLng struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"latLng"`
		} `json:"location"`
	} `json:"waypoint"`
}

func waypoints(points []LatLng) []matrixWaypoint {
	result := make([]matrixWaypoint, len(points))
	for i, point := range points {
		result[i].Waypoint.Location.LatLng.Latitude = point.Latitude
		result[i].Waypoint.Location.LatLng.Longitude = point.Longitude
	}
	return result
}

func (c *Client) post(ctx context.Context, reqURL, fieldMask string, payload any) (io.ReadCloser, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "marshal maps request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "build maps request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute maps request")
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp, "maps request failed")
	}

	return resp.Body, nil
}

func statusError(resp *http.Response, message string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	return pkgerrors.Wrap(pkgerrors.CodeNetwork, cause, message)
}

func (c *Client) placesURL(path string) string {
	return joinURL(c.placesBaseURL, path)
}

func (c *Client) routesURL(path string) string {
	return joinURL(c.routesBaseURL, path)
}

func joinURL(base, path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(path, "/"))
}
