// Package transport provides the authenticated HTTP layer used by the
// inventory client.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	token  string
	system string
}

// New creates a transport client that authenticates every request with token.
// system names the remote side in errors.
func New(system string, auth Authenticator, token string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
		token:  token,
		system: system,
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// SetTimeout sets the per-request timeout. Zero keeps the current value.
// The *http.Client is copied so one passed to WithHTTPClient is not changed.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		hc := *c.http
		hc.Timeout = timeout
		c.http = &hc
	}
}

// Do performs an HTTP request with authentication applied. A request that
// never reached the server is returned as a *errors.ConnectivityError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewConnectivityError(c.system, req.URL.Host, err)
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewValidationError("url", url, err.Error())
	}
	return c.Do(ctx, req)
}

// Send performs a request with a JSON encoded body.
func (c *Client) Send(ctx context.Context, method, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewValidationError("url", url, err.Error())
	}
	return c.Do(ctx, req)
}
