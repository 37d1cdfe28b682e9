// Copyright (C) 2025 ANP Works
//
// This file is part of didwba-go.
//
// didwba-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// didwba-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with didwba-go.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/signer"
	"github.com/anp-works/didwba-go/pkg/transport"
)

// WBAClient is an HTTP client with automatic DID-WBA authentication. It
// prefers a cached bearer token, falls back to request signing, and when
// a cached token is rejected with 401 it retries once with a freshly
// signed header.
type WBAClient struct {
	signer     *signer.Signer
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a WBAClient.
type Option func(*WBAClient)

// WithHTTPClient supplies a base client; its Transport is wrapped with
// the authenticating transport.
func WithHTTPClient(c *http.Client) Option {
	return func(w *WBAClient) { w.httpClient = c }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *WBAClient) { w.logger = l }
}

// NewWBAClient creates a client around the given signer.
func NewWBAClient(s *signer.Signer, opts ...Option) *WBAClient {
	c := &WBAClient{
		signer:     s,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.httpClient.Transport = transport.NewDIDHTTPTransport(s,
		transport.WithBase(base),
		transport.WithLogger(c.logger))
	return c
}

// Do executes the request with automatic authentication. On a 401 the
// cached token has already been dropped by the transport, so a single
// retry re-signs the request; a second 401 is returned to the caller.
func (c *WBAClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	retry, ok := rewindRequest(req)
	if !ok {
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.logger.Debug("retrying with fresh signature after 401",
		zap.String("url", req.URL.String()))
	return c.httpClient.Do(retry)
}

// Post sends a POST request with a JSON body.
func (c *WBAClient) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// Get sends a GET request.
func (c *WBAClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.Do(req)
}

// DID returns the caller's DID.
func (c *WBAClient) DID() string {
	return c.signer.DID()
}

// rewindRequest clones req for a retry. Requests with a consumed,
// non-replayable body cannot be retried.
func rewindRequest(req *http.Request) (*http.Request, bool) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry.Body = body
	return retry, true
}
