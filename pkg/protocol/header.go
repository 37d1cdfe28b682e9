package protocol

import (
	"fmt"
	"regexp"
	"strings"
)

// HeaderParts holds the wire fields of a DIDWba Authorization header.
// RespDID is only populated by the mutual parse variant.
type HeaderParts struct {
	DID                string
	Nonce              string
	Timestamp          string
	VerificationMethod string
	Signature          string
	RespDID            string
}

// BuildAuthHeader assembles the header string. Field order is fixed:
// did, nonce, timestamp, [resp_did,] verification_method, signature.
func BuildAuthHeader(p *HeaderParts) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteByte(' ')
	writeField(&b, FieldDID, p.DID, false)
	writeField(&b, FieldNonce, p.Nonce, true)
	writeField(&b, FieldTimestamp, p.Timestamp, true)
	if p.RespDID != "" {
		writeField(&b, FieldRespDID, p.RespDID, true)
	}
	writeField(&b, FieldVerificationMethod, p.VerificationMethod, true)
	writeField(&b, FieldSignature, p.Signature, true)
	return b.String()
}

func writeField(b *strings.Builder, key, value string, comma bool) {
	if comma {
		b.WriteString(", ")
	}
	fmt.Fprintf(b, "%s=%q", key, value)
}

var fieldPattern = regexp.MustCompile(`(\w+)="([^"]*)"`)

// oneWayFields are required by both parse variants; the mutual variant
// additionally requires resp_did.
var oneWayFields = []string{
	FieldDID, FieldNonce, FieldTimestamp, FieldVerificationMethod, FieldSignature,
}

// ParseAuthHeader parses a one-way DIDWba header. The header must begin
// with the scheme token; field order is not significant.
func ParseAuthHeader(header string) (*HeaderParts, error) {
	fields, err := extractFields(header)
	if err != nil {
		return nil, err
	}
	p, err := partsFromFields(fields)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ParseMutualAuthHeader parses a two-way DIDWba header, which must also
// carry resp_did. It is a distinct entry point from ParseAuthHeader so a
// one-way header can never slip through where mutual auth is expected.
func ParseMutualAuthHeader(header string) (*HeaderParts, error) {
	fields, err := extractFields(header)
	if err != nil {
		return nil, err
	}
	p, err := partsFromFields(fields)
	if err != nil {
		return nil, err
	}
	respDID, ok := fields[FieldRespDID]
	if !ok || respDID == "" {
		return nil, &MissingFieldError{Field: FieldRespDID}
	}
	p.RespDID = respDID
	return p, nil
}

// HasRespDID reports whether the header carries a resp_did field, which
// tells a verifier to take the mutual parse path. It does not validate
// the header.
func HasRespDID(header string) bool {
	for _, m := range fieldPattern.FindAllStringSubmatch(header, -1) {
		if m[1] == FieldRespDID {
			return true
		}
	}
	return false
}

func extractFields(header string) (map[string]string, error) {
	trimmed := strings.TrimSpace(header)
	if !strings.HasPrefix(trimmed, Scheme) {
		return nil, ErrInvalidHeaderFormat
	}
	rest := trimmed[len(Scheme):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		// e.g. "DIDWbaX ..." must not pass the scheme check.
		return nil, ErrInvalidHeaderFormat
	}

	fields := make(map[string]string)
	for _, m := range fieldPattern.FindAllStringSubmatch(rest, -1) {
		fields[m[1]] = m[2]
	}
	return fields, nil
}

func partsFromFields(fields map[string]string) (*HeaderParts, error) {
	for _, name := range oneWayFields {
		if v, ok := fields[name]; !ok || v == "" {
			return nil, &MissingFieldError{Field: name}
		}
	}
	return &HeaderParts{
		DID:                fields[FieldDID],
		Nonce:              fields[FieldNonce],
		Timestamp:          fields[FieldTimestamp],
		VerificationMethod: fields[FieldVerificationMethod],
		Signature:          fields[FieldSignature],
	}, nil
}
