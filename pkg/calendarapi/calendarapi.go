// Package calendarapi loads the Google Calendar API client from its discovery
// document and owns the bearer token the client sends.
package calendarapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mattismoel/canvascal/types"
)

const DefaultDiscoveryURL = "https://www.googleapis.com/discovery/v1/apis/calendar/v3/rest"

var (
	ErrNoToken          = errors.New("no access token held by the calendar client")
	ErrInvalidDiscovery = errors.New("discovery document does not describe calendar v3")
)

type Options struct {
	DiscoveryURL string
	APIKey       string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Discovery holds the fields of a discovery document the client needs.
type Discovery struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	RootURL     string `json:"rootUrl"`
	ServicePath string `json:"servicePath"`
	BaseURL     string `json:"baseUrl"`
	Resources   map[string]struct {
		Methods map[string]json.RawMessage `json:"methods"`
	} `json:"resources"`
}

// Endpoint returns the base URL calendar requests are sent to.
func (d *Discovery) Endpoint() string {
	if d.BaseURL != "" {
		return d.BaseURL
	}
	return strings.TrimSuffix(d.RootURL, "/") + "/" + strings.TrimPrefix(d.ServicePath, "/")
}

func (d *Discovery) validate() error {
	if d.Name != "calendar" || d.Version != "v3" {
		return fmt.Errorf("%w: got %s %s", ErrInvalidDiscovery, d.Name, d.Version)
	}
	events, ok := d.Resources["events"]
	if !ok {
		return fmt.Errorf("%w: no events resource", ErrInvalidDiscovery)
	}
	if _, ok := events.Methods["insert"]; !ok {
		return fmt.Errorf("%w: no events.insert method", ErrInvalidDiscovery)
	}
	if d.Endpoint() == "/" {
		return fmt.Errorf("%w: no base URL", ErrInvalidDiscovery)
	}
	return nil
}

type Client struct {
	Service   *calendar.Service
	Discovery *Discovery
	tokens    *TokenStore
	logger    *zap.Logger
}

// Load fetches the discovery document and initialises the calendar service
// against the endpoint it describes. Requests carry the API key and whatever
// token is currently in the client's token store.
func Load(ctx context.Context, opts Options) (*Client, error) {
	if opts.DiscoveryURL == "" {
		opts.DiscoveryURL = DefaultDiscoveryURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	doc, err := fetchDiscovery(ctx, opts.HTTPClient, opts.DiscoveryURL)
	if err != nil {
		return nil, err
	}

	tokens := &TokenStore{}
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: tokens,
			Base:   &apiKeyTransport{key: opts.APIKey, base: opts.HTTPClient.Transport},
		},
		Timeout: opts.HTTPClient.Timeout,
	}

	service, err := calendar.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(doc.Endpoint()),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create calendar service: %w", err)
	}

	opts.Logger.Info("calendar api client ready", zap.String("endpoint", doc.Endpoint()))
	return &Client{
		Service:   service,
		Discovery: doc,
		tokens:    tokens,
		logger:    opts.Logger,
	}, nil
}

func fetchDiscovery(ctx context.Context, hc *http.Client, url string) (*Discovery, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build discovery request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch discovery document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch discovery document: %s", resp.Status)
	}

	doc := &Discovery{}
	if err := json.NewDecoder(resp.Body).Decode(doc); err != nil {
		return nil, fmt.Errorf("could not decode discovery document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Tokens returns the token store the client authenticates with.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// Calendar returns the authenticated user's primary calendar.
func (c *Client) Calendar() *types.GoogleCalendar {
	return &types.GoogleCalendar{
		Service: c.Service,
		ID:      types.PrimaryCalendarID,
		Logger:  c.logger,
	}
}

type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.key == "" {
		return base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return base.RoundTrip(r)
}
