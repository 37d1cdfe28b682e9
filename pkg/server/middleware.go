package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anp-works/didwba-go/pkg/protocol"
	"github.com/anp-works/didwba-go/pkg/token"
	"github.com/anp-works/didwba-go/pkg/verifier"
)

type contextKey string

const callerDIDKey contextKey = "caller_did"

// ErrorHandler handles authentication failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DIDAuthMiddleware authenticates incoming requests. A DIDWba
// Authorization header goes through full signature verification; a
// Bearer header is validated against the token issuer. After a
// successful signature handshake the response carries a fresh bearer
// token so the caller can skip re-signing subsequent requests.
type DIDAuthMiddleware struct {
	verifier      *verifier.Verifier
	issuer        *token.Issuer
	serviceDomain string
	errorHandler  ErrorHandler
	optional      bool
	logger        *zap.Logger
}

// NewDIDAuthMiddleware creates middleware for the given verifier and
// service domain. The domain must be the server's own view of its
// hostname; it is part of the signed payload, never read from the wire.
// issuer may be nil, disabling the bearer-token flow.
func NewDIDAuthMiddleware(v *verifier.Verifier, issuer *token.Issuer, serviceDomain string) *DIDAuthMiddleware {
	return &DIDAuthMiddleware{
		verifier:      v,
		issuer:        issuer,
		serviceDomain: serviceDomain,
		errorHandler:  defaultErrorHandler,
		logger:        zap.NewNop(),
	}
}

// SetErrorHandler sets a custom error handler.
func (m *DIDAuthMiddleware) SetErrorHandler(handler ErrorHandler) {
	m.errorHandler = handler
}

// SetOptional sets whether authentication is optional. If true, requests
// without an Authorization header pass through with no caller DID in
// context.
func (m *DIDAuthMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// SetLogger attaches a logger; the default discards everything.
func (m *DIDAuthMiddleware) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Wrap wraps an HTTP handler with DID-WBA authentication.
func (m *DIDAuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip verification for OPTIONS requests (CORS preflight)
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get(protocol.AuthorizationHeader)
		if auth == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.errorHandler(w, r, fmt.Errorf("missing %s header", protocol.AuthorizationHeader))
			return
		}

		switch {
		case strings.HasPrefix(auth, protocol.BearerPrefix):
			m.serveBearer(w, r, next, auth)
		case strings.HasPrefix(auth, protocol.Scheme):
			m.serveSigned(w, r, next, auth)
		default:
			m.errorHandler(w, r, fmt.Errorf("unsupported authorization scheme"))
		}
	})
}

func (m *DIDAuthMiddleware) serveBearer(w http.ResponseWriter, r *http.Request, next http.Handler, auth string) {
	if m.issuer == nil {
		m.errorHandler(w, r, fmt.Errorf("bearer tokens are not accepted"))
		return
	}
	callerDID, err := m.issuer.Validate(strings.TrimPrefix(auth, protocol.BearerPrefix))
	if err != nil {
		m.errorHandler(w, r, err)
		return
	}
	next.ServeHTTP(w, r.WithContext(withCallerDID(r.Context(), callerDID)))
}

func (m *DIDAuthMiddleware) serveSigned(w http.ResponseWriter, r *http.Request, next http.Handler, auth string) {
	result := m.verifier.Verify(r.Context(), auth, m.serviceDomain)
	if !result.Success {
		m.logger.Info("signature verification failed",
			zap.String("code", string(result.Code)),
			zap.Error(result.Err))
		m.errorHandler(w, r, fmt.Errorf("signature verification failed (%s): %w", result.Code, result.Err))
		return
	}

	if m.issuer != nil {
		bearer, expiresAt, err := m.issuer.Issue(result.CallerDID)
		if err != nil {
			m.logger.Warn("token issuance failed", zap.Error(err))
		} else {
			w.Header().Set(protocol.TokenHeader, bearer)
			w.Header().Set(protocol.TokenExpiresHeader, expiresAt.UTC().Format(time.RFC3339))
		}
	}

	next.ServeHTTP(w, r.WithContext(withCallerDID(r.Context(), result.CallerDID)))
}

func withCallerDID(ctx context.Context, callerDID string) context.Context {
	return context.WithValue(ctx, callerDIDKey, callerDID)
}

// GetCallerDID extracts the authenticated caller DID from the request
// context.
func GetCallerDID(ctx context.Context) (string, bool) {
	callerDID, ok := ctx.Value(callerDIDKey).(string)
	return callerDID, ok
}

// defaultErrorHandler is the default error handler.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, fmt.Sprintf("Unauthorized: %s", err.Error()), http.StatusUnauthorized)
}
