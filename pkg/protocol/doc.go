// Package protocol defines the DID-WBA wire format: the DIDWba
// Authorization header, the signed AuthData payload, and the protocol's
// header and field names.
//
// The header looks like
//
//	DIDWba did="did:wba:example.com%3A9527:wba:user:abc123",
//	    nonce="...", timestamp="2025-01-01T12:00:00Z",
//	    verification_method="key-1", signature="..."
//
// (on one line on the wire). Mutual-auth headers additionally carry
// resp_did. Construction emits fields in a fixed order; parsing extracts
// key="value" pairs in any order but insists on the DIDWba scheme token.
// One-way and mutual headers have different required-field sets, so they
// get distinct parse functions rather than one lenient parser.
package protocol
