// Package server provides HTTP middleware that authenticates requests
// with DID-WBA. Signed DIDWba headers go through full verification;
// bearer tokens minted by a previous handshake are validated against the
// token issuer. The authenticated caller DID is exposed to handlers via
// GetCallerDID.
package server
