// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gigdial/internal/common/errors"
)

// KeycloakClient introspects bearer tokens against a Keycloak realm.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// TokenInfo holds the information returned by the token introspection endpoint.
type TokenInfo struct {
	Active            bool   `json:"active"`
	Scope             string `json:"scope,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
	Username          string `json:"username,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	Exp               int64  `json:"exp,omitempty"`
	Sub               string `json:"sub,omitempty"`
}

func NewKeycloakClient(baseURL, realm, clientID, clientSecret string, timeout time.Duration) *KeycloakClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Introspect checks that token is active and returns its claims.
func (k *KeycloakClient) Introspect(ctx context.Context, token string) (*TokenInfo, error) {
	introspectURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token/introspect", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("token", token)
	data.Set("token_type_hint", "access_token")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, introspectURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.NewAuthenticationError(fmt.Sprintf("build introspection request: %v", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamUnavailableError("keycloak.introspect", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if k.isTransientHTTPError(resp.StatusCode) {
			return nil, errors.NewUpstreamStatusError("keycloak.introspect", resp.StatusCode, string(body))
		}
		return nil, errors.NewAuthenticationError(fmt.Sprintf("introspection status %d", resp.StatusCode))
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.NewUpstreamDecodeError("keycloak.introspect", err)
	}

	if !info.Active {
		return nil, errors.NewAuthenticationError("token is not active")
	}
	return &info, nil
}

func (k *KeycloakClient) isTransientHTTPError(statusCode int) bool {
	switch statusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
