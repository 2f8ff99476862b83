// Package apiclient is a typed HTTP client for the admin API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	resp "orgaclients/internal/models/response_models"
)

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	Status  int
	Message string
	TraceID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %d %s (trace %s)", e.Status, e.Message, e.TraceID)
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return &APIError{Status: res.StatusCode, Message: "undecodable response"}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Status: res.StatusCode, Message: env.Message, TraceID: env.TraceID}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("apiclient: decode data: %w", err)
		}
	}
	return nil
}

// Login stores the issued token on the client for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*resp.LoginResponse, error) {
	var out resp.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*resp.OrderView, error) {
	var out resp.OrderView
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type toggleBody struct {
	Field       string     `json:"field"`
	IsPaid      bool       `json:"isPaid"`
	ReferenceID *uuid.UUID `json:"referenceId,omitempty"`
}

func (c *Client) TogglePayment(ctx context.Context, orderID uuid.UUID, refID *uuid.UUID, field string, paid bool) (*resp.OrderView, error) {
	var out resp.OrderView
	body := toggleBody{Field: field, IsPaid: paid, ReferenceID: refID}
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+orderID.String(), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context) (*resp.RevenueSummary, error) {
	var out resp.RevenueSummary
	if err := c.do(ctx, http.MethodGet, "/api/admin/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
