package showdown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrLoginRejected means the login server refused the credentials.
var ErrLoginRejected = errors.New("login rejected by server")

// LoginClient exchanges a challenge string for a login assertion via
// the Showdown login endpoint (action.php).
type LoginClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewLoginClient creates a LoginClient for the given action endpoint.
func NewLoginClient(endpoint string) *LoginClient {
	return &LoginClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Assertion performs the login request for the given credentials and
// challenge string ("KEYID|CHALLENGE") and returns the assertion to
// send back over the connection.
func (l *LoginClient) Assertion(ctx context.Context, user, password, challstr string) (string, error) {
	form := url.Values{}
	form.Set("act", "login")
	form.Set("name", user)
	form.Set("pass", password)
	form.Set("challstr", challstr)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login server returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	// The login server prefixes its JSON body with a ']' guard byte.
	body := strings.TrimPrefix(string(raw), "]")
	var result struct {
		ActionSuccess bool   `json:"actionsuccess"`
		Assertion     string `json:"assertion"`
	}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if !result.ActionSuccess || result.Assertion == "" || strings.HasPrefix(result.Assertion, ";;") {
		return "", ErrLoginRejected
	}
	return result.Assertion, nil
}
