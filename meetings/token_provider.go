package meetings

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSafetyWindow is subtracted from the reported lifetime so a token is
// refreshed before the provider would reject it.
const tokenSafetyWindow = 5 * time.Minute

// FetchTokenFunc obtains a fresh access token and its lifetime.
type FetchTokenFunc func() (token string, lifetime time.Duration, err error)

// TokenProvider caches an access token and refreshes it when it nears
// expiry. It is owned by a Client rather than being process-global, so tests
// can inject their own fetch function.
type TokenProvider struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
	fetch  FetchTokenFunc
}

func NewTokenProvider(fetch FetchTokenFunc) *TokenProvider {
	return &TokenProvider{fetch: fetch}
}

// Token returns the cached access token, refreshing it if missing or close
// to expiry. Concurrent callers share a single refresh.
func (p *TokenProvider) Token() (string, error) {
	p.mu.RLock()
	if p.token != "" && time.Now().Before(p.expiry) {
		token := p.token
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiry) {
		return p.token, nil
	}

	log.Println("Fetching new meeting provider access token...")
	token, lifetime, err := p.fetch()
	if err != nil {
		return "", err
	}
	if lifetime > tokenSafetyWindow {
		lifetime -= tokenSafetyWindow
	}

	p.token = token
	p.expiry = time.Now().Add(lifetime)
	return p.token, nil
}

type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// zoomTokenFetcher requests a server-to-server OAuth token from Zoom's
// account_credentials grant.
func zoomTokenFetcher(client *http.Client, tokenURL, accountID, clientID, clientSecret string) FetchTokenFunc {
	return func() (string, time.Duration, error) {
		form := url.Values{}
		form.Set("grant_type", "account_credentials")
		form.Set("account_id", accountID)

		req, err := http.NewRequest("POST", tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return "", 0, err
		}
		req.SetBasicAuth(clientID, clientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		if err != nil {
			return "", 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", 0, fmt.Errorf("token endpoint returned non-200 status: %s", resp.Status)
		}

		var tokenResp oauthTokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
			return "", 0, err
		}
		return tokenResp.AccessToken, time.Duration(tokenResp.ExpiresIn) * time.Second, nil
	}
}
