// Package client provides a Go HTTP client for programmatic access to the
// casekeeper API.
//
// The client mirrors the server's endpoint structure with strongly-typed
// methods, using the same [github.com/casekeeper/casekeeper/pkg/models]
// entities as the server. Authentication tokens obtained from Register or
// Login are stored on the client and included as a bearer token on every
// subsequent request.
//
// Basic usage:
//
//	c := client.NewClient("http://localhost:8080")
//	auth, err := c.Login(ctx, "user@example.com", "password")
//	if err != nil {
//		return err
//	}
//	journals, err := c.ListJournals(ctx, 1, 50)
//
// Client instances are safe for concurrent use by multiple goroutines, with
// the exception of SetAuthToken which should be called before sharing.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/casekeeper/casekeeper/pkg/models"
)

// Client provides strongly-typed access to the casekeeper REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates an API client. The baseURL should include protocol and
// host without a trailing slash.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetAuthToken sets the bearer token for subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// BaseURL returns the server address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request with proper headers.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the health status of the server.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Children

func (c *Client) CreateChild(ctx context.Context, child *models.Child) (*models.Child, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/children", child)
	if err != nil {
		return nil, err
	}

	var result models.Child
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ListChildren(ctx context.Context) ([]*models.Child, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/children", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Child
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) DeleteChild(ctx context.Context, id models.ChildID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/children/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Journals

func (c *Client) CreateJournal(ctx context.Context, journal *models.Journal) (*models.Journal, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/journals", journal)
	if err != nil {
		return nil, err
	}

	var result models.Journal
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListJournals retrieves one page of journal entries, newest date first.
func (c *Client) ListJournals(ctx context.Context, page, pageSize int) ([]*models.Journal, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/journals"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Journal
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) GetJournal(ctx context.Context, id models.JournalID) (*models.Journal, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/journals/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Journal
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) UpdateJournal(ctx context.Context, journal *models.Journal) (*models.Journal, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/journals/%s", journal.ID), journal)
	if err != nil {
		return nil, err
	}

	var result models.Journal
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) DeleteJournal(ctx context.Context, id models.JournalID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/journals/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Violations

func (c *Client) CreateViolation(ctx context.Context, violation *models.Violation) (*models.Violation, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/violations", violation)
	if err != nil {
		return nil, err
	}

	var result models.Violation
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListViolations retrieves one page of violations. An empty severity means
// no filter.
func (c *Client) ListViolations(ctx context.Context, severity string, page, pageSize int) ([]*models.Violation, error) {
	params := url.Values{}
	if severity != "" {
		params.Set("severity", severity)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/violations"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Violation
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) GetViolation(ctx context.Context, id models.ViolationID) (*models.Violation, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/violations/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Violation
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) DeleteViolation(ctx context.Context, id models.ViolationID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/violations/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Documents

// UploadDocument sends file content as a multipart form. The fileType must
// be one of the server's allowed content types.
func (c *Client) UploadDocument(ctx context.Context, filename, fileType, category, description string, content []byte) (*models.Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", fileType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if category != "" {
		if err := writer.WriteField("category", category); err != nil {
			return nil, err
		}
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	var result models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/documents", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// DownloadDocument retrieves the raw file content and its content type.
func (c *Client) DownloadDocument(ctx context.Context, id models.DocumentID) ([]byte, string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/documents/%s/download", id), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) DeleteDocument(ctx context.Context, id models.DocumentID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Calendar events

func (c *Client) CreateEvent(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/calendar", event)
	if err != nil {
		return nil, err
	}

	var result models.CalendarEvent
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]*models.CalendarEvent, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/calendar", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.CalendarEvent
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) UpdateEvent(ctx context.Context, event *models.CalendarEvent) (*models.CalendarEvent, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/calendar/%s", event.ID), event)
	if err != nil {
		return nil, err
	}

	var result models.CalendarEvent
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id models.EventID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/calendar/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}

// Contacts

func (c *Client) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/contacts", contact)
	if err != nil {
		return nil, err
	}

	var result models.Contact
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/contacts", nil)
	if err != nil {
		return nil, err
	}

	var result []*models.Contact
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) GetContact(ctx context.Context, id models.ContactID) (*models.Contact, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/contacts/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result models.Contact
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/api/contacts/%s", contact.ID), contact)
	if err != nil {
		return nil, err
	}

	var result models.Contact
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) DeleteContact(ctx context.Context, id models.ContactID) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/contacts/%s", id), nil)
	if err != nil {
		return err
	}

	return decodeResponse(resp, nil)
}
