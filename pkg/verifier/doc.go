// Package verifier implements the server side of DID-WBA authentication.
//
// A Verifier parses the incoming DIDWba Authorization header, obtains
// the caller's DID document (from explicit registration or the injected
// resolver), rebuilds the signed payload from the server's own service
// domain, and checks the signature against the verification method the
// header names.
//
//	v := verifier.New(did.NewWebResolver())
//
//	result := v.Verify(ctx, authHeader, "example.com")
//	if !result.Success {
//	    // result.Code says why: invalid_header_format,
//	    // missing_required_field, did_resolution_error,
//	    // verification_method_not_found, signature_invalid, ...
//	    http.Error(w, "unauthorized", http.StatusUnauthorized)
//	    return
//	}
//	callerDID := result.CallerDID
//
// # Trust Sources
//
// Documents can be pre-provisioned with RegisterDocument (they never
// expire) or resolved on demand. Resolution is the only networked step;
// it runs under a configurable timeout (default 10s), concurrent
// requests for the same DID are collapsed into one fetch, and results
// are cached with last-write-wins replacement.
//
// # Failure Semantics
//
// Every failure is a terminal, structured AuthResult for that single
// attempt; the verifier never retries and never lets a panic escape.
// did_resolution_error is the one code a caller might retry on; that
// policy belongs to the caller.
//
// Note that the verifier checks only what the signature proves: that the
// caller controls the DID's key and signed this nonce, timestamp and
// domain. It does not keep a nonce-seen store or enforce a timestamp
// freshness window; hosts that need replay protection layer it on top
// using result.Payload.
package verifier
