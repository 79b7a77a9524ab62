package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sarobidyBryan/signalement/internal/config"
)

// ErrNotFound is returned when the provider does not know the account.
var ErrNotFound = errors.New("identity: account not found")

// Account is one identity-provider account.
type Account struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Provider is the external authentication provider collaborator.
type Provider interface {
	GetUser(ctx context.Context, uid string) (*Account, error)
	GetUserByEmail(ctx context.Context, email string) (*Account, error)
	CreateUser(ctx context.Context, email, password, displayName string) (*Account, error)
}

// HTTPProvider talks to the provider's REST admin API.
type HTTPProvider struct {
	BaseURL    string
	APIKey     string
	HttpClient *http.Client
}

func NewHTTPProvider(cfg *config.Config) Provider {
	return &HTTPProvider{
		BaseURL: cfg.IdentityAPIURL,
		APIKey:  cfg.IdentityAPIKey,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *HTTPProvider) GetUser(ctx context.Context, uid string) (*Account, error) {
	return p.fetchAccount(ctx, fmt.Sprintf("%s/accounts/%s", p.BaseURL, url.PathEscape(uid)))
}

func (p *HTTPProvider) GetUserByEmail(ctx context.Context, email string) (*Account, error) {
	return p.fetchAccount(ctx, fmt.Sprintf("%s/accounts?email=%s", p.BaseURL, url.QueryEscape(email)))
}

func (p *HTTPProvider) CreateUser(ctx context.Context, email, password, displayName string) (*Account, error) {
	body, err := json.Marshal(map[string]string{
		"email":        email,
		"password":     password,
		"display_name": displayName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/accounts", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	p.authorize(req)

	resp, err := p.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("identity: create account failed with status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (p *HTTPProvider) fetchAccount(ctx context.Context, endpoint string) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	p.authorize(req)

	resp, err := p.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: lookup failed with status %d", resp.StatusCode)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (p *HTTPProvider) authorize(req *http.Request) {
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
}
