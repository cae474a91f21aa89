// Package oauth implements the Google OAuth authorization-code exchange.
// A single concrete client covers the one provider in scope; there is no
// pluggable strategy registry.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	// ErrProfileInvalid is returned when the provider response carries no
	// stable subject id.
	ErrProfileInvalid = errors.New("provider profile missing subject id")
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the provider profile descriptor produced by a successful
// code exchange. Subject is the provider's stable identifier for the user;
// Name may be empty.
type Profile struct {
	Subject string `json:"id"`
	Name    string `json:"name"`
}

// Client drives the three-legged OAuth flow against Google.
type Client struct {
	config      *oauth2.Config
	userinfoURL string
}

// NewClient creates an OAuth client. Only the profile scope is requested;
// no email or contacts access.
func NewClient(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"profile"},
		},
		userinfoURL: userinfoEndpoint,
	}
}

// AuthorizationURL builds the provider authorization URL to redirect the
// user agent to. state is the CSRF token verified at the callback.
func (c *Client) AuthorizationURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// ExchangeCode redeems an authorization code at the provider's token
// endpoint and fetches the user's profile. Returns ErrProfileInvalid if the
// profile carries no subject id.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	profile, err := c.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	if profile.Subject == "" {
		return nil, ErrProfileInvalid
	}

	return profile, nil
}

// fetchProfile loads the userinfo document using the granted access token
func (c *Client) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	httpClient := c.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	return &profile, nil
}
