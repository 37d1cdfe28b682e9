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

package transport

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/protocol"
	"github.com/anp-works/didwba-go/pkg/signer"
)

// DIDHTTPTransport is an http.RoundTripper that authenticates every
// outgoing request with DID-WBA:
//
//   - attaches a cached bearer token when one is valid for the target
//     domain, otherwise a freshly signed DIDWba header
//   - adds the informational X-DID-Caller / X-DID-Target headers
//   - harvests bearer tokens from responses into the signer's cache
//   - drops the cached token when the server answers 401, so the next
//     attempt re-signs
type DIDHTTPTransport struct {
	signer *signer.Signer
	base   http.RoundTripper
	logger *zap.Logger
}

// Option configures a DIDHTTPTransport.
type Option func(*DIDHTTPTransport)

// WithBase sets the underlying RoundTripper (default
// http.DefaultTransport).
func WithBase(rt http.RoundTripper) Option {
	return func(t *DIDHTTPTransport) { t.base = rt }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *DIDHTTPTransport) { t.logger = l }
}

// NewDIDHTTPTransport creates an authenticating transport around the
// given signer.
func NewDIDHTTPTransport(s *signer.Signer, opts ...Option) *DIDHTTPTransport {
	t := &DIDHTTPTransport{
		signer: s,
		base:   http.DefaultTransport,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper. The incoming request is cloned
// before headers are attached, per the RoundTripper contract.
func (t *DIDHTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	targetURL := req.URL.String()
	auth, err := t.signer.BuildAuthHeaders(targetURL, false)
	if err != nil {
		return nil, fmt.Errorf("build auth headers: %w", err)
	}

	domain, err := signer.DomainFromURL(targetURL)
	if err != nil {
		return nil, err
	}

	signed := req.Clone(req.Context())
	for key, values := range auth {
		signed.Header[key] = values
	}
	signed.Header.Set(protocol.CallerHeader, t.signer.DID())
	signed.Header.Set(protocol.TargetHeader, domain)

	resp, err := t.base.RoundTrip(signed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// A rejected bearer token must not be replayed; the caller (or
		// pkg/client) decides whether to retry with a fresh signature.
		if clearErr := t.signer.ClearToken(targetURL); clearErr == nil {
			t.logger.Debug("cleared cached token after 401", zap.String("domain", domain))
		}
		return resp, nil
	}

	if _, err := t.signer.UpdateTokenFromResponse(targetURL, resp.Header); err != nil {
		t.logger.Warn("failed to cache bearer token", zap.Error(err))
	}
	return resp, nil
}
