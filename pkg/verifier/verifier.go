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

package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/protocol"
	"github.com/anp-works/didwba-go/pkg/suite"
)

// DefaultDocumentTTL is how long a resolved DID document stays cached.
const DefaultDocumentTTL = time.Hour

// Verifier is the server-side authenticator. It parses DIDWba headers,
// looks up the caller's DID document (pre-registered or resolved through
// the injected resolver) and checks the signature against the document's
// named verification method.
//
// The document cache is the only shared mutable state; entries are
// replaced wholesale on refresh (construct-then-swap), so concurrent
// verifications see either the old or the new complete document.
type Verifier struct {
	resolver       did.Resolver
	docs           *gocache.Cache
	group          singleflight.Group
	resolveTimeout time.Duration
	documentTTL    time.Duration
	logger         *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithResolveTimeout bounds a single resolution; default 10s.
func WithResolveTimeout(d time.Duration) Option {
	return func(v *Verifier) { v.resolveTimeout = d }
}

// WithDocumentTTL changes how long resolved documents are cached.
// Documents registered explicitly never expire.
func WithDocumentTTL(d time.Duration) Option {
	return func(v *Verifier) { v.documentTTL = d }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// New creates a Verifier. The resolver may be nil, in which case only
// explicitly registered DID documents can authenticate.
func New(resolver did.Resolver, opts ...Option) *Verifier {
	v := &Verifier{
		resolver:       resolver,
		docs:           gocache.New(DefaultDocumentTTL, 5*time.Minute),
		resolveTimeout: did.DefaultResolveTimeout,
		documentTTL:    DefaultDocumentTTL,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RegisterDocument pre-provisions a trusted DID document. It never
// expires and is replaced wholesale on re-registration.
func (v *Verifier) RegisterDocument(doc *did.Document) {
	v.docs.Set(doc.ID, doc, gocache.NoExpiration)
}

// InvalidateDocument drops a cached or registered document, forcing the
// next verification for that DID to resolve afresh.
func (v *Verifier) InvalidateDocument(didStr string) {
	v.docs.Delete(didStr)
}

// VerifyOption adjusts a single Verify call.
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	expectedDID string
}

// WithExpectedDID rejects the header unless its did field matches.
func WithExpectedDID(didStr string) VerifyOption {
	return func(c *verifyConfig) { c.expectedDID = didStr }
}

// Verify runs the full verification state machine for one header:
// parse, resolve, match the verification method, rebuild the signed
// payload from the server's own serviceDomain, and check the signature.
// The outcome is always a structured AuthResult; Verify never panics and
// never retries a failed step.
func (v *Verifier) Verify(ctx context.Context, header, serviceDomain string, opts ...VerifyOption) AuthResult {
	var cfg verifyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Parsed
	parts, res, ok := v.parse(header)
	if !ok {
		return res
	}

	if cfg.expectedDID != "" && parts.DID != cfg.expectedDID {
		return failure(CodeUnexpectedCallerDID,
			fmt.Errorf("caller DID %q does not match expected %q", parts.DID, cfg.expectedDID))
	}

	// Resolved
	doc, err := v.document(ctx, parts.DID)
	if err != nil {
		v.logger.Warn("DID resolution failed", zap.String("did", parts.DID), zap.Error(err))
		return failure(CodeDIDResolutionError, err)
	}

	// MethodMatched
	vm, found := doc.FindVerificationMethod(parts.VerificationMethod)
	if !found {
		return failure(CodeVerificationMethodNotFound,
			fmt.Errorf("verification method %s#%s not found", parts.DID, parts.VerificationMethod))
	}
	sig, err := suite.FromVerificationMethod(vm)
	if err != nil {
		return failure(CodeUnsupportedVerificationMethod, err)
	}

	// The payload is rebuilt from the server's own view of the service
	// domain; a domain value from the wire is never trusted.
	data := &protocol.AuthData{
		DID:           parts.DID,
		Nonce:         parts.Nonce,
		Timestamp:     parts.Timestamp,
		ServiceDomain: serviceDomain,
		RespDID:       parts.RespDID,
	}
	hash, err := data.Hash()
	if err != nil {
		return failure(CodeSignatureInvalid, err)
	}

	// Verified | Failed
	valid, err := sig.Verify(hash, parts.Signature)
	if err != nil {
		if errors.Is(err, suite.ErrMalformedSignature) {
			return failure(CodeMalformedSignature, err)
		}
		return failure(CodeSignatureInvalid, err)
	}
	if !valid {
		return failure(CodeSignatureInvalid,
			fmt.Errorf("signature does not verify for %s against domain %q", parts.DID, serviceDomain))
	}

	v.logger.Debug("verified caller",
		zap.String("did", parts.DID),
		zap.String("domain", serviceDomain),
		zap.Bool("mutual", data.Mutual()))
	return AuthResult{Success: true, CallerDID: parts.DID, Payload: data}
}

// parse picks the one-way or mutual parse path based on the presence of
// resp_did; the required-field sets differ between the two.
func (v *Verifier) parse(header string) (*protocol.HeaderParts, AuthResult, bool) {
	parse := protocol.ParseAuthHeader
	if protocol.HasRespDID(header) {
		parse = protocol.ParseMutualAuthHeader
	}
	parts, err := parse(header)
	if err != nil {
		if protocol.IsMissingField(err) {
			return nil, failure(CodeMissingRequiredField, err), false
		}
		return nil, failure(CodeInvalidHeaderFormat, err), false
	}
	return parts, AuthResult{}, true
}

// document returns the cached document for didStr or resolves it,
// deduplicating concurrent resolutions of the same DID.
func (v *Verifier) document(ctx context.Context, didStr string) (*did.Document, error) {
	if cached, ok := v.docs.Get(didStr); ok {
		return cached.(*did.Document), nil
	}
	if v.resolver == nil {
		return nil, fmt.Errorf("DID %q is not registered and no resolver is configured", didStr)
	}

	result, err, _ := v.group.Do(didStr, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(ctx, v.resolveTimeout)
		defer cancel()
		doc, err := v.resolver.Resolve(rctx, didStr)
		if err != nil {
			return nil, err
		}
		v.docs.Set(didStr, doc, v.documentTTL)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*did.Document), nil
}
