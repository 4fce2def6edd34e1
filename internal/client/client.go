// Package client talks to the hermans JSON API.
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

	"github.com/zekrotja/hermans/internal/model"
)

const (
	ProductionRootURL  = "/api"
	DevelopmentRootURL = "http://localhost:8080/api"
)

var ErrInvalidResponse = errors.New("invalid response")

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

type validatable interface {
	Validate() error
}

type Client struct {
	endpoint string
	http     *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveRootURL picks the API root: an explicit value wins, otherwise the
// relative production path or the local development server.
func ResolveRootURL(explicit string, production bool) string {
	if explicit != "" {
		return explicit
	}
	if production {
		return ProductionRootURL
	}
	return DevelopmentRootURL
}

func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) GetShopData(ctx context.Context) (*model.ShopData, error) {
	return do[model.ShopData](ctx, c, http.MethodGet, "items", nil)
}

func (c *Client) CreateList(ctx context.Context) (*model.OrderList, error) {
	return do[model.OrderList](ctx, c, http.MethodPost, "lists", nil)
}

func (c *Client) GetList(ctx context.Context, id string) (*model.OrderList, error) {
	return do[model.OrderList](ctx, c, http.MethodGet, "lists/"+url.PathEscape(id), nil)
}

// DeleteList deletes the list. The server answers 204, so the returned list
// is empty.
func (c *Client) DeleteList(ctx context.Context, id string) (*model.OrderList, error) {
	return do[model.OrderList](ctx, c, http.MethodDelete, "lists/"+url.PathEscape(id), nil)
}

func (c *Client) CreateOrder(ctx context.Context, listID string, o *model.CreateOrder) (*model.CreatedOrder, error) {
	return do[model.CreatedOrder](ctx, c, http.MethodPost, "lists/"+url.PathEscape(listID)+"/orders", o)
}

func (c *Client) SubmitFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	body := struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Page    string `json:"page"`
	}{f.Type, f.Message, f.Page}
	return do[model.Feedback](ctx, c, http.MethodPost, "feedback", body)
}

// do performs one round trip. A 204 yields the zero value of R without
// decoding. Decoded values are validated when R knows how.
func do[R any](ctx context.Context, c *Client, method, path string, body any) (*R, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/"+strings.TrimLeft(path, "/"), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Code: res.StatusCode}
	}

	out := new(R)
	if res.StatusCode == http.StatusNoContent {
		return out, nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, err
	}
	if v, ok := any(out).(validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
	}
	return out, nil
}
