package protocol

// Scheme is the authentication scheme token that opens every DID-WBA
// Authorization header.
const Scheme = "DIDWba"

// HTTP header names used by the protocol and its auxiliary token flow.
const (
	// AuthorizationHeader carries either a DIDWba signed header or a
	// bearer token.
	AuthorizationHeader = "Authorization"

	// BearerPrefix marks a bearer token inside the Authorization header.
	BearerPrefix = "Bearer "

	// TokenHeader is the response header a server uses to hand the
	// caller a bearer token after a successful signature handshake.
	TokenHeader = "X-Auth-Token"

	// TokenExpiresHeader optionally carries the token's absolute expiry,
	// as an HTTP-date or RFC 3339 timestamp. Unparseable values are
	// ignored in favor of the default lifetime.
	TokenExpiresHeader = "X-Token-Expires"

	// CallerHeader and TargetHeader are informational request headers;
	// they are never part of the signed payload.
	CallerHeader = "X-DID-Caller"
	TargetHeader = "X-DID-Target"
)

// Wire field names inside the DIDWba header. Construction emits them in
// this order; parsing accepts any order.
const (
	FieldDID                = "did"
	FieldNonce              = "nonce"
	FieldTimestamp          = "timestamp"
	FieldRespDID            = "resp_did"
	FieldVerificationMethod = "verification_method"
	FieldSignature          = "signature"
)
