// Package token mints and validates the short-lived bearer tokens a
// server issues after a successful DID-WBA signature handshake. Tokens
// are HS256 JWTs carrying the caller DID as subject; holding one lets a
// caller skip re-signing every request to the same domain until expiry.
package token
