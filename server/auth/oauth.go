package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OAuthConfig describes an external OAuth2 identity provider.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string

	// Field names in the userinfo payload.
	IdentifierField  string
	DisplayNameField string
	EmailField       string
}

// OAuthUserInfo is the provider identity an external login resolves to.
type OAuthUserInfo struct {
	Identifier  string
	DisplayName string
	Email       string
}

// OAuthProvider drives the authorization-code flow against one provider.
type OAuthProvider struct {
	config *OAuthConfig
	client *http.Client
}

// NewOAuthProvider creates an OAuthProvider. The config must carry a client
// id and secret and the three endpoint urls.
func NewOAuthProvider(config *OAuthConfig) (*OAuthProvider, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, errors.New("oauth client id and secret are required")
	}
	if config.AuthURL == "" || config.TokenURL == "" || config.UserInfoURL == "" {
		return nil, errors.New("oauth endpoint urls are required")
	}
	return &OAuthProvider{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// AuthCodeURL returns the provider url the browser is redirected to.
func (p *OAuthProvider) AuthCodeURL(redirectURL, state string) string {
	return p.oauth2Config(redirectURL).AuthCodeURL(state)
}

// ExchangeToken trades an authorization code for the provider access token.
func (p *OAuthProvider) ExchangeToken(ctx context.Context, redirectURL, code string) (string, error) {
	token, err := p.oauth2Config(redirectURL).Exchange(ctx, code)
	if err != nil {
		return "", errors.Wrap(err, "failed to exchange access token")
	}
	if token.AccessToken == "" {
		return "", errors.New("provider returned an empty access token")
	}
	return token.AccessToken, nil
}

// UserInfo fetches the provider identity behind accessToken, mapped through
// the configured field names.
func (p *OAuthProvider) UserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "userinfo request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read userinfo response")
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse userinfo response")
	}

	userInfo := &OAuthUserInfo{
		Identifier:  stringClaim(claims, p.config.IdentifierField),
		DisplayName: stringClaim(claims, p.config.DisplayNameField),
		Email:       stringClaim(claims, p.config.EmailField),
	}
	if userInfo.Identifier == "" {
		return nil, errors.Errorf("userinfo field %q is missing", p.config.IdentifierField)
	}
	if userInfo.DisplayName == "" {
		userInfo.DisplayName = userInfo.Identifier
	}
	return userInfo, nil
}

func (p *OAuthProvider) oauth2Config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.config.ClientID,
		ClientSecret: p.config.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       p.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.config.AuthURL,
			TokenURL:  p.config.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func stringClaim(claims map[string]any, field string) string {
	if field == "" {
		return ""
	}
	switch v := claims[field].(type) {
	case string:
		return v
	case float64:
		// Numeric ids arrive as floats after json decoding.
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
