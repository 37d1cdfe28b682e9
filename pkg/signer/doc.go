// Package signer implements the client side of DID-WBA authentication:
// building signed Authorization headers and managing the per-domain
// bearer-token cache.
//
// # Building Auth Headers
//
// Create a Signer from your DID document and a signing credential, then
// ask it for headers per request:
//
//	cred, _ := signer.NewSecp256k1Credential(privateKeyBytes)
//	s, _ := signer.New(doc, cred)
//
//	headers, err := s.BuildAuthHeaders("https://agent.example.com/rpc", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Header.Set("Authorization", headers.Get("Authorization"))
//
// The first call signs a fresh DIDWba header. Once the server has
// answered with a bearer token (see UpdateTokenFromResponse), subsequent
// calls for the same domain return that token until it expires; pass
// forceNew to skip the cache and re-sign.
//
// # Mutual Authentication
//
// BuildMutualAuthHeaders additionally binds the responder's DID into the
// signed payload (the two-way header variant with resp_did).
//
// # Credentials
//
// The Credential interface is deliberately narrow: sign a hash, return
// the primitive's native signature. Keys held by an external credential
// store or HSM plug in through CredentialFunc; the in-process
// implementations (secp256k1, NIST P-curves, Ed25519) cover tests and
// simple agents. The signer never sees or transmits key material, only
// signatures and issued bearer tokens.
//
// # Token Cache
//
// Tokens are cached per target domain with last-write-wins semantics.
// Two goroutines racing on the same domain may both compute a signature;
// the duplicate work is harmless and the later token simply replaces the
// earlier one. ClearToken / ClearAllTokens drop entries explicitly, e.g.
// after the server rejects a token.
package signer
