package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"psdevbot/pkg/log"
)

const (
	defaultAPIURL = "https://api.github.com"
	cacheSize     = 100
	fetchTimeout  = 5 * time.Second
)

// User is the GitHub profile metadata used to enrich messages.
type User struct {
	HTMLURL string `json:"html_url"`
}

// Client resolves GitHub logins to profile metadata, caching results
// in an LRU of 100 entries. Fetch failures are returned as absence and
// never cached, so they are retried on the next call.
type Client struct {
	user     string
	password string
	apiURL   string

	cache      *lru.Cache[string, User]
	httpClient *http.Client
	l          log.Logger
}

// NewClient creates a GitHub API client with optional basic auth
// credentials.
func NewClient(user, password string, l log.Logger) *Client {
	cache, _ := lru.New[string, User](cacheSize)
	return &Client{
		user:       user,
		password:   password,
		apiURL:     defaultAPIURL,
		cache:      cache,
		httpClient: &http.Client{Timeout: fetchTimeout},
		l:          l,
	}
}

// SetAPIURL overrides the default GitHub API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// FetchUser returns profile metadata for a login. Cache hits return
// immediately; misses perform one network fetch. The second return is
// false when the user could not be resolved.
func (c *Client) FetchUser(ctx context.Context, login string) (User, bool) {
	if user, ok := c.cache.Get(login); ok {
		return user, true
	}

	c.l.Infof(ctx, "Fetching user %q from GitHub", login)
	user, err := c.fetch(ctx, login)
	if err != nil {
		c.l.Warnf(ctx, "GitHub user fetch failed for %q: %v", login, err)
		return User{}, false
	}

	c.cache.Add(login, user)
	return user, true
}

func (c *Client) fetch(ctx context.Context, login string) (User, error) {
	url := fmt.Sprintf("%s/users/%s", c.apiURL, login)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return User{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "psdevbot")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return user, nil
}
