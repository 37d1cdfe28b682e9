// Package client provides an HTTP client with automatic DID-WBA
// authentication: cached bearer tokens when available, request signing
// otherwise, and a single re-signed retry when a cached token is
// rejected with 401.
package client
