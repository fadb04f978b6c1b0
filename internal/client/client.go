package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmdshop/cmdshop/internal/cmds"
	"github.com/cmdshop/cmdshop/internal/cmds/export"
)

const (
	// DefaultServer is where cmdctl looks for the API when nothing is configured.
	DefaultServer = "http://localhost:5010"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// APIError is a non-2xx response from the cmd API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status %d", e.Status)
	}
	return fmt.Sprintf("http error: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client is a typed HTTP client for the /cmds resource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sends token as a Bearer credential.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update mirrors the PUT body; nil fields are left untouched.
type Update struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// createBody is the POST /cmds wire shape.
type createBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (c *Client) List(ctx context.Context) ([]cmds.Cmd, error) {
	var out []cmds.Cmd
	err := c.do(ctx, http.MethodGet, "/cmds", nil, &out)
	return out, err
}

// Search lists cmds carrying tag and matching query; empty values are not sent.
func (c *Client) Search(ctx context.Context, tag, query string) ([]cmds.Cmd, error) {
	q := url.Values{}
	if tag != "" {
		q.Set("tag", tag)
	}
	if query != "" {
		q.Set("q", query)
	}
	path := "/cmds"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []cmds.Cmd
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/cmds/tags", nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id string) (*cmds.Cmd, error) {
	var out cmds.Cmd
	if err := c.do(ctx, http.MethodGet, "/cmds/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, in cmds.NewCmd) (*cmds.Cmd, error) {
	body := createBody{Title: in.Title, Content: in.Content, Tags: in.Tags}
	if body.Tags == nil {
		body.Tags = []string{}
	}
	var out cmds.Cmd
	if err := c.do(ctx, http.MethodPost, "/cmds", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, u Update) (*cmds.Cmd, error) {
	var out cmds.Cmd
	if err := c.do(ctx, http.MethodPut, "/cmds/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete returns the server's confirmation message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodDelete, "/cmds/"+url.PathEscape(id), nil, &out)
	return out.Message, err
}

func (c *Client) Export(ctx context.Context) (*export.Snapshot, error) {
	var out export.Snapshot
	if err := c.do(ctx, http.MethodPost, "/cmds/export", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
