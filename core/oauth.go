package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"

// GoogleConfig configures the federated Google flow.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is the absolute callback URL registered with Google,
	// e.g. https://app.example.com/auth/callback/google.
	RedirectURL string

	// Endpoint and UserInfoURL override the provider endpoints.
	// Used by tests; leave zero for the real provider.
	Endpoint    *oauth2.Endpoint
	UserInfoURL string
	// HTTPClient overrides the client used for outbound calls.
	HTTPClient *http.Client
}

// GoogleProfile is the provider's userinfo response.
type GoogleProfile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	VerifiedEmail bool    `json:"verified_email"`
	Name          *string `json:"name"`
	GivenName     *string `json:"given_name"`
	FamilyName    *string `json:"family_name"`
	Picture       *string `json:"picture"`
}

// DisplayName picks the best available name from the profile.
func (p *GoogleProfile) DisplayName() string {
	for _, candidate := range []*string{p.Name, p.GivenName, p.FamilyName} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return "Unknown User"
}

// GoogleProvider performs the authorization-code exchange and profile
// fetch against Google's endpoints. Failed calls are not retried; the
// orchestrator aborts the flow instead.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	endpoint := google.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		client:      client,
	}
}

// Exchange swaps an authorization code for an access token.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return nil, ErrTokenExchange
	}
	return token, nil
}

// Profile fetches the userinfo document with the bearer token.
func (g *GoogleProvider) Profile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetch, res.StatusCode)
	}

	profile := &GoogleProfile{}
	if err := json.NewDecoder(res.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: profile has no email", ErrProfileFetch)
	}

	return profile, nil
}
