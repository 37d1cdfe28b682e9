package verifier

import "github.com/anp-works/didwba-go/pkg/protocol"

// Code classifies why a verification attempt failed. Every code is a
// terminal outcome of a single attempt; the verifier never retries
// internally. CodeDIDResolutionError is the only code a caller might
// reasonably retry on, and that policy belongs to the caller.
type Code string

const (
	CodeInvalidHeaderFormat           Code = "invalid_header_format"
	CodeMissingRequiredField          Code = "missing_required_field"
	CodeMalformedSignature            Code = "malformed_signature"
	CodeUnsupportedVerificationMethod Code = "unsupported_verification_method"
	CodeUnexpectedCallerDID           Code = "unexpected_caller_did"
	CodeDIDResolutionError            Code = "did_resolution_error"
	CodeVerificationMethodNotFound    Code = "verification_method_not_found"
	CodeSignatureInvalid              Code = "signature_invalid"
)

// AuthResult is the structured outcome of one verification attempt.
// Failures are reported here, never as a panic crossing the package
// boundary, so an HTTP layer can map them to 401 deterministically.
// Payload is only set on success and carries the recovered signed data.
type AuthResult struct {
	Success   bool
	CallerDID string
	Payload   *protocol.AuthData
	Code      Code
	Err       error
}

func failure(code Code, err error) AuthResult {
	return AuthResult{Code: code, Err: err}
}
