package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the identity provider's backend REST API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type metadataUpdate struct {
	PrivateMetadata map[string]any `json:"private_metadata"`
}

// SetUserRole stores role in the user's private metadata. An empty role clears it.
func (c *Client) SetUserRole(ctx context.Context, userID, role string) error {
	var value any
	if role != "" {
		value = role
	}
	body := metadataUpdate{PrivateMetadata: map[string]any{"role": value}}
	return c.doJSON(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(userID)+"/metadata", body, nil)
}

// InvitationRequest asks the provider to email a sign-up link.
type InvitationRequest struct {
	EmailAddress   string         `json:"email_address"`
	RedirectURL    string         `json:"redirect_url"`
	PublicMetadata map[string]any `json:"public_metadata"`
}

type Invitation struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

func (c *Client) CreateInvitation(ctx context.Context, req InvitationRequest) (*Invitation, error) {
	var inv Invitation
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations", req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("identity API %s %s: status %d", method, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
