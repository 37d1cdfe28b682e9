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

package signer

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/protocol"
	"github.com/anp-works/didwba-go/pkg/suite"
)

// DefaultTokenTTL is used when a response carries a token without a
// parseable expiry.
const DefaultTokenTTL = 30 * time.Minute

// TokenInfo is a bearer token cached for one target domain. A refreshed
// token supersedes the old entry wholesale; there is no merging.
type TokenInfo struct {
	Token     string
	ExpiresAt time.Time
}

// Signer is the client-side auth initiator. It holds the caller's DID
// document and signing credential (both injected, never owned) and a
// per-domain bearer-token cache. It never transmits the private key,
// only signatures and, once issued, bearer tokens.
//
// The token cache is last-write-wins: two goroutines racing to build a
// header for the same domain may both compute a signature, which is
// harmless, and the later token store simply replaces the earlier one.
type Signer struct {
	doc    *did.Document
	cred   Credential
	sig    suite.Suite
	tokens *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// Option configures a Signer.
type Option func(*Signer)

// WithTokenTTL changes the fallback token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Signer) { s.ttl = ttl }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Signer) { s.logger = l }
}

// New creates a Signer for the given DID document and credential. The
// document's first verification method determines the signature encoding,
// so an unsupported method type fails here rather than on first use.
func New(doc *did.Document, cred Credential, opts ...Option) (*Signer, error) {
	if doc == nil {
		return nil, fmt.Errorf("signer: DID document is required")
	}
	if cred == nil {
		return nil, fmt.Errorf("signer: credential is required")
	}
	sig, err := suite.FromVerificationMethod(doc.FirstVerificationMethod())
	if err != nil {
		return nil, fmt.Errorf("signer: %w", err)
	}

	s := &Signer{
		doc:    doc,
		cred:   cred,
		sig:    sig,
		tokens: gocache.New(DefaultTokenTTL, tokenCleanupInterval),
		ttl:    DefaultTokenTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// tokenCleanupInterval is how often expired token entries are swept.
const tokenCleanupInterval = time.Minute

// DID returns the caller's DID.
func (s *Signer) DID() string { return s.doc.ID }

// BuildAuthHeaders returns the headers to attach to a request for
// targetURL. If a non-expired bearer token is cached for the target's
// domain and forceNew is false, the token is used and no signature is
// computed; otherwise a fresh one-way DIDWba header is signed.
func (s *Signer) BuildAuthHeaders(targetURL string, forceNew bool) (http.Header, error) {
	domain, err := DomainFromURL(targetURL)
	if err != nil {
		return nil, err
	}

	if !forceNew {
		if info, ok := s.Token(domain); ok {
			s.logger.Debug("using cached bearer token", zap.String("domain", domain))
			h := http.Header{}
			h.Set(protocol.AuthorizationHeader, protocol.BearerPrefix+info.Token)
			return h, nil
		}
	}

	header, err := s.signHeader(domain, "")
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set(protocol.AuthorizationHeader, header)
	return h, nil
}

// BuildMutualAuthHeaders always signs a fresh two-way header binding the
// responder's DID; the token shortcut does not apply to mutual auth.
func (s *Signer) BuildMutualAuthHeaders(targetURL, respDID string) (http.Header, error) {
	domain, err := DomainFromURL(targetURL)
	if err != nil {
		return nil, err
	}
	header, err := s.signHeader(domain, respDID)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set(protocol.AuthorizationHeader, header)
	return h, nil
}

func (s *Signer) signHeader(domain, respDID string) (string, error) {
	var (
		data *protocol.AuthData
		err  error
	)
	if respDID == "" {
		data, err = protocol.NewAuthData(s.doc.ID, domain)
	} else {
		data, err = protocol.NewMutualAuthData(s.doc.ID, domain, respDID)
	}
	if err != nil {
		return "", err
	}

	hash, err := data.Hash()
	if err != nil {
		return "", err
	}
	native, err := s.cred.Sign(hash)
	if err != nil {
		return "", fmt.Errorf("sign auth payload: %w", err)
	}
	wireSig, err := s.sig.EncodeSignature(native)
	if err != nil {
		return "", err
	}

	vm := s.doc.FirstVerificationMethod()
	header := protocol.BuildAuthHeader(&protocol.HeaderParts{
		DID:                data.DID,
		Nonce:              data.Nonce,
		Timestamp:          data.Timestamp,
		RespDID:            data.RespDID,
		VerificationMethod: vm.Fragment(),
		Signature:          wireSig,
	})
	s.logger.Debug("built signed auth header",
		zap.String("domain", domain),
		zap.Bool("mutual", data.Mutual()))
	return header, nil
}

// UpdateTokenFromResponse inspects response headers for a bearer token
// (X-Auth-Token, or Authorization: Bearer) and caches it for the target's
// domain, superseding any previous entry. The expiry comes from
// X-Token-Expires when parseable, otherwise now + the configured TTL.
// It returns the stored token, or "" when the response carried none.
func (s *Signer) UpdateTokenFromResponse(targetURL string, respHeaders http.Header) (string, error) {
	domain, err := DomainFromURL(targetURL)
	if err != nil {
		return "", err
	}

	token := respHeaders.Get(protocol.TokenHeader)
	if token == "" {
		auth := respHeaders.Get(protocol.AuthorizationHeader)
		if strings.HasPrefix(auth, protocol.BearerPrefix) {
			token = strings.TrimPrefix(auth, protocol.BearerPrefix)
		}
	}
	if token == "" {
		return "", nil
	}

	expiresAt := time.Now().Add(s.ttl)
	if raw := respHeaders.Get(protocol.TokenExpiresHeader); raw != "" {
		if t, ok := parseExpiry(raw); ok {
			expiresAt = t
		}
	}

	s.tokens.Set(domain, &TokenInfo{Token: token, ExpiresAt: expiresAt}, time.Until(expiresAt))
	s.logger.Debug("cached bearer token",
		zap.String("domain", domain),
		zap.Time("expires_at", expiresAt))
	return token, nil
}

// Token returns the cached, non-expired token for a domain.
func (s *Signer) Token(domain string) (*TokenInfo, bool) {
	v, ok := s.tokens.Get(domain)
	if !ok {
		return nil, false
	}
	info := v.(*TokenInfo)
	if time.Now().After(info.ExpiresAt) {
		return nil, false
	}
	return info, true
}

// ClearToken drops the cached token for targetURL's domain, e.g. after
// the server rejected it.
func (s *Signer) ClearToken(targetURL string) error {
	domain, err := DomainFromURL(targetURL)
	if err != nil {
		return err
	}
	s.tokens.Delete(domain)
	return nil
}

// ClearAllTokens drops every cached token.
func (s *Signer) ClearAllTokens() {
	s.tokens.Flush()
}

// parseExpiry accepts RFC 3339 or HTTP-date expiry values.
func parseExpiry(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := http.ParseTime(raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DomainFromURL derives the service domain a payload is signed for: the
// target URL's hostname, without port.
func DomainFromURL(targetURL string) (string, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return "", fmt.Errorf("parse target url: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("target url %q has no host", targetURL)
	}
	return host, nil
}
