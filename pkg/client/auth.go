package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/casekeeper/casekeeper/pkg/models"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	State    string `json:"state"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}

	var result AuthResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	c.authToken = result.Token
	return &result, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var result AuthResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	c.authToken = result.Token
	return &result, nil
}

// Me returns the account the stored token resolves to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Share links

// CreateShareRequest is the payload for creating a share link.
type CreateShareRequest struct {
	Name              string                 `json:"name"`
	ExpiresDays       int                    `json:"expires_days"`
	IncludeJournals   bool                   `json:"include_journals"`
	IncludeViolations bool                   `json:"include_violations"`
	IncludeDocuments  bool                   `json:"include_documents"`
	IncludeCalendar   bool                   `json:"include_calendar"`
	PermissionLevel   models.PermissionLevel `json:"permission_level"`
}

// SharedView is the projection a share link resolves to.
type SharedView struct {
	Name            string                  `json:"name"`
	SharedBy        string                  `json:"shared_by"`
	PermissionLevel models.PermissionLevel  `json:"permission_level"`
	CreatedAt       time.Time               `json:"created_at"`
	ExpiresAt       time.Time               `json:"expires_at"`
	Journals        []*models.Journal       `json:"journals,omitempty"`
	Violations      []*models.Violation     `json:"violations,omitempty"`
	Documents       []*models.Document      `json:"documents,omitempty"`
	Calendar        []*models.CalendarEvent `json:"calendar,omitempty"`
}

func (c *Client) CreateShareToken(ctx context.Context, req CreateShareRequest) (*models.ShareToken, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/share/tokens", req)
	if err != nil {
		return nil, err
	}

	var result models.ShareToken
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ListShareTokens(ctx context.Context) ([]*models.ShareToken, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/share/tokens", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.ShareToken
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) RevokeShareToken(ctx context.Context, id models.ShareTokenID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/share/tokens/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// ResolveShare fetches the shared view behind a secret. No authentication is
// required or sent beyond the secret itself.
func (c *Client) ResolveShare(ctx context.Context, secret string) (*SharedView, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/shared/%s", secret), nil)
	if err != nil {
		return nil, err
	}

	var result SharedView
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
