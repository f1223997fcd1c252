// Package client talks to the laundromat API on behalf of the dashboard and
// the laundryctl command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"laundromat-backend/models"
	"laundromat-backend/services"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a typed HTTP client. The session cookie set by Login is kept in
// its cookie jar and sent on every later call.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

type loginResponse struct {
	Login   string `json:"login"`
	User    string `json:"user"`
	Message string `json:"message"`
}

// Login opens a session and returns the logged in user.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return "", err
	}
	return out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/logout", nil, nil, nil)
}

// Protected returns the user of the current session.
func (c *Client) Protected(ctx context.Context) (string, error) {
	var out struct {
		User string `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/protected", nil, nil, &out); err != nil {
		return "", err
	}
	return out.User, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in services.CustomerInput) (models.Customer, error) {
	var out models.Customer
	err := c.do(ctx, http.MethodPost, "/api/customers", nil, in, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := c.do(ctx, http.MethodGet, "/api/customers", nil, nil, &out)
	return out, err
}

func (c *Client) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	var out []models.Customer
	err := c.do(ctx, http.MethodGet, "/api/customers/search", url.Values{"query": {query}}, nil, &out)
	return out, err
}

func (c *Client) ListLaundryOrders(ctx context.Context) ([]models.LaundryOrder, error) {
	var out []models.LaundryOrder
	err := c.do(ctx, http.MethodGet, "/api/laundries", nil, nil, &out)
	return out, err
}

func (c *Client) CreateLaundryOrder(ctx context.Context, customerID uuid.UUID, in services.LaundryOrderInput) (models.LaundryOrder, error) {
	var out models.LaundryOrder
	err := c.do(ctx, http.MethodPost, "/api/customers/"+customerID.String()+"/laundry", nil, in, &out)
	return out, err
}

func (c *Client) ListLaundryOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.LaundryOrder, error) {
	var out []models.LaundryOrder
	err := c.do(ctx, http.MethodGet, "/api/customers/"+customerID.String()+"/laundry", nil, nil, &out)
	return out, err
}

// ExportLaundryOrdersCSV downloads the server-side CSV export.
func (c *Client) ExportLaundryOrdersCSV(ctx context.Context, query string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/laundries/export", url.Values{"query": {query}}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and turns non-2xx answers into *APIError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
}
