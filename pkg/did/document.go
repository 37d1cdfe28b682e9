package did

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Supported verification method types. The suite package dispatches on
// these; unknown types are rejected when the verification capability is
// constructed, not when a signature is checked.
const (
	TypeEcdsaSecp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"
	TypeEd25519VerificationKey2018        = "Ed25519VerificationKey2018"
	TypeJsonWebKey2020                    = "JsonWebKey2020"
)

// JWK is the public-key subset of a JSON Web Key carried by a
// verification method. Only the fields verification needs are modeled.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y,omitempty"`
}

// VerificationMethod is a named public key inside a DID document,
// addressable as {did}#{fragment}. It is immutable once the owning
// document has been parsed.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyJwk       *JWK   `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
}

// Fragment returns the verification method's local name after '#'.
func (vm *VerificationMethod) Fragment() string {
	return Fragment(vm.ID)
}

// Service is an endpoint advertised by a DID document, e.g. an agent
// description URL.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is a W3C-shaped DID document. Documents are constructed once
// from JSON and treated as read-only afterwards; a refreshed document
// replaces the old one wholesale.
type Document struct {
	Context            contextList          `json:"@context,omitempty"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication,omitempty"`
	Service            []Service            `json:"service,omitempty"`
}

// contextList accepts either a single context string or an array.
type contextList []string

func (c *contextList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = contextList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("@context must be a string or array of strings")
	}
	*c = contextList(many)
	return nil
}

func (c contextList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(c))
}

// ParseDocument decodes and validates DID document JSON. The document is
// checked against the embedded JSON schema first, then against the
// structural invariants the schema cannot express: every verification
// method must be controlled by the document itself and its id must be the
// document id plus a fragment.
func ParseDocument(data []byte) (*Document, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse DID document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if !strings.HasPrefix(d.ID, "did:") {
		return fmt.Errorf("DID document id %q is not a DID", d.ID)
	}
	if len(d.VerificationMethod) == 0 {
		return fmt.Errorf("DID document %s has no verification methods", d.ID)
	}
	for i := range d.VerificationMethod {
		vm := &d.VerificationMethod[i]
		if vm.Controller != d.ID {
			return fmt.Errorf("verification method %s controller %q does not match document id %q",
				vm.ID, vm.Controller, d.ID)
		}
		if !strings.HasPrefix(vm.ID, d.ID+"#") {
			return fmt.Errorf("verification method id %q is not of the form %s#<fragment>", vm.ID, d.ID)
		}
		if vm.PublicKeyJwk == nil && vm.PublicKeyMultibase == "" {
			return fmt.Errorf("verification method %s carries no public key material", vm.ID)
		}
	}
	return nil
}

// FindVerificationMethod locates the method whose id is the document id
// plus the given fragment.
func (d *Document) FindVerificationMethod(fragment string) (*VerificationMethod, bool) {
	want := d.ID + "#" + fragment
	for i := range d.VerificationMethod {
		if d.VerificationMethod[i].ID == want {
			return &d.VerificationMethod[i], true
		}
	}
	return nil, false
}

// FirstVerificationMethod returns the document's first listed method,
// which is the one header construction signs with.
func (d *Document) FirstVerificationMethod() *VerificationMethod {
	return &d.VerificationMethod[0]
}
