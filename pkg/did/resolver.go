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

package did

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Resolver fetches the DID document for a did:wba identifier. Resolution
// is the only operation on the verification path that touches the
// network; implementations must honor context cancellation.
type Resolver interface {
	Resolve(ctx context.Context, didStr string) (*Document, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, didStr string) (*Document, error)

func (f ResolverFunc) Resolve(ctx context.Context, didStr string) (*Document, error) {
	return f(ctx, didStr)
}

const (
	// DefaultResolveTimeout bounds a single document fetch.
	DefaultResolveTimeout = 10 * time.Second

	// maxDocumentSize caps the response body read during resolution.
	maxDocumentSize = 1 << 20
)

// WebResolver resolves did:wba identifiers over HTTPS by fetching the
// did.json location derived from the identifier.
type WebResolver struct {
	client *http.Client
	logger *zap.Logger
}

// WebResolverOption configures a WebResolver.
type WebResolverOption func(*WebResolver)

// WithHTTPClient replaces the resolver's HTTP client, e.g. to point at a
// test server or tighten TLS settings.
func WithHTTPClient(c *http.Client) WebResolverOption {
	return func(r *WebResolver) { r.client = c }
}

// WithResolverLogger attaches a logger; the default discards everything.
func WithResolverLogger(l *zap.Logger) WebResolverOption {
	return func(r *WebResolver) { r.logger = l }
}

// NewWebResolver creates a resolver with a 10 second timeout and an
// OpenTelemetry-instrumented transport.
func NewWebResolver(opts ...WebResolverOption) *WebResolver {
	r := &WebResolver{
		client: &http.Client{
			Timeout:   DefaultResolveTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches and validates the DID document for didStr. The returned
// document's id must equal the requested DID.
func (r *WebResolver) Resolve(ctx context.Context, didStr string) (*Document, error) {
	parts, err := Parse(didStr)
	if err != nil {
		return nil, err
	}
	docURL := parts.DocumentURL()
	r.logger.Debug("resolving DID document", zap.String("did", didStr), zap.String("url", docURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build resolution request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch DID document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch DID document: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read DID document: %w", err)
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return nil, err
	}
	if doc.ID != didStr {
		return nil, fmt.Errorf("resolved document id %q does not match requested DID %q", doc.ID, didStr)
	}

	r.logger.Debug("resolved DID document",
		zap.String("did", didStr),
		zap.Int("verification_methods", len(doc.VerificationMethod)))
	return doc, nil
}
