// Package identity talks to the OAuth2 identity provider: it requests short
// lived access tokens through the implicit grant and revokes them.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
)

const DefaultConfigURL = "https://accounts.google.com/.well-known/openid-configuration"

// Scope is the only scope requested: write access to calendar events.
const Scope = calendar.CalendarEventsScope

var (
	ErrConsentDenied = errors.New("consent was not granted")
	ErrStateMismatch = errors.New("authorization response state does not match the request")
	ErrNoAccessToken = errors.New("authorization response carries no access token")
	ErrMissingConfig = errors.New("identity provider configuration is incomplete")
)

// ProviderMetadata holds the endpoints of the OpenID provider configuration.
type ProviderMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
}

// A Consenter shows authURL to the user and returns the parameters the
// provider redirected back with.
type Consenter interface {
	Consent(ctx context.Context, authURL string) (url.Values, error)
}

type Options struct {
	ConfigURL   string
	ClientID    string
	RedirectURL string
	Consenter   Consenter
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

type TokenClient struct {
	config     *oauth2.Config
	revokeURL  string
	consent    Consenter
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// Load fetches the provider metadata and constructs a token client bound to
// the client ID and the calendar events scope.
func Load(ctx context.Context, opts Options) (*TokenClient, error) {
	if opts.ConfigURL == "" {
		opts.ConfigURL = DefaultConfigURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: no client ID", ErrMissingConfig)
	}
	if opts.Consenter == nil {
		return nil, fmt.Errorf("%w: no consenter", ErrMissingConfig)
	}

	meta, err := fetchMetadata(ctx, opts.HTTPClient, opts.ConfigURL)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("identity token client ready", zap.String("issuer", meta.Issuer))
	return NewTokenClient(meta, opts), nil
}

// NewTokenClient builds a token client from already known provider metadata.
func NewTokenClient(meta *ProviderMetadata, opts Options) *TokenClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &TokenClient{
		config: &oauth2.Config{
			ClientID:    opts.ClientID,
			RedirectURL: opts.RedirectURL,
			Scopes:      []string{Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  meta.AuthorizationEndpoint,
				TokenURL: meta.TokenEndpoint,
			},
		},
		revokeURL:  meta.RevocationEndpoint,
		consent:    opts.Consenter,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

func fetchMetadata(ctx context.Context, hc *http.Client, configURL string) (*ProviderMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not build provider configuration request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch provider configuration: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch provider configuration: %s", resp.Status)
	}

	meta := &ProviderMetadata{}
	if err := json.NewDecoder(resp.Body).Decode(meta); err != nil {
		return nil, fmt.Errorf("could not decode provider configuration: %w", err)
	}
	if meta.AuthorizationEndpoint == "" || meta.RevocationEndpoint == "" {
		return nil, fmt.Errorf("%w: missing authorization or revocation endpoint", ErrMissingConfig)
	}
	return meta, nil
}

// Scope returns the scope tokens are requested for.
func (c *TokenClient) Scope() string {
	return strings.Join(c.config.Scopes, " ")
}

// AuthURL builds the implicit grant authorization URL. Consent is forced on
// every request so no silent re-authorisation happens.
func (c *TokenClient) AuthURL(state string) string {
	return c.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("response_type", "token"),
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// RequestAccessToken runs the consent prompt and returns the granted token.
func (c *TokenClient) RequestAccessToken(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	authURL := c.AuthURL(state)
	c.logger.Debug("requesting access token", zap.String("auth_url", authURL))

	values, err := c.consent.Consent(ctx, authURL)
	if err != nil {
		return nil, err
	}
	if e := values.Get("error"); e != "" {
		return nil, fmt.Errorf("%w: %s", ErrConsentDenied, e)
	}
	if values.Get("state") != state {
		return nil, ErrStateMismatch
	}
	return c.tokenFromValues(values)
}

func (c *TokenClient) tokenFromValues(values url.Values) (*oauth2.Token, error) {
	access := values.Get("access_token")
	if access == "" {
		return nil, ErrNoAccessToken
	}

	token := &oauth2.Token{
		AccessToken: access,
		TokenType:   values.Get("token_type"),
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	if secs, err := strconv.Atoi(values.Get("expires_in")); err == nil && secs > 0 {
		token.Expiry = c.now().Add(time.Duration(secs) * time.Second)
	}
	if scope := values.Get("scope"); scope != "" {
		token = token.WithExtra(map[string]interface{}{"scope": scope})
	}
	return token, nil
}

// Revoke asks the provider to invalidate the access token.
func (c *TokenClient) Revoke(ctx context.Context, accessToken string) error {
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("could not build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("could not revoke token: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	c.logger.Info("access token revoked")
	return nil
}
