// Package transport provides an http.RoundTripper that attaches DID-WBA
// authentication to outgoing requests and keeps the signer's bearer
// token cache in sync with server responses.
package transport
