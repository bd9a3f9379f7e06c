package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the slice of the Google userinfo payload the store needs.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client exchanges an OAuth authorization code for the Google profile
// behind it.
type Client interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (*Profile, error)
}

type googleClient struct {
	clientID     string
	clientSecret string
}

func NewGoogleClient(clientID, clientSecret string) Client {
	return &googleClient{clientID: clientID, clientSecret: clientSecret}
}

// ExchangeCode implements Client. The redirect URI must match the one
// used on the consent screen or Google rejects the exchange.
func (g *googleClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*Profile, error) {
	conf := &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	resp, err := conf.Client(ctx, token).Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned status %d", resp.StatusCode)
	}

	profile := &Profile{}

	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("user info response missing email")
	}

	return profile, nil
}
