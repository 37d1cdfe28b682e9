package did

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema captures the wire shape of a DID document before any Go
// types get involved, so malformed documents fail with a field-level
// message instead of a decoding error.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "verificationMethod"],
  "properties": {
    "id": {"type": "string", "pattern": "^did:"},
    "verificationMethod": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type", "controller"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "controller": {"type": "string"},
          "publicKeyJwk": {
            "type": "object",
            "required": ["kty"],
            "properties": {
              "kty": {"type": "string"},
              "crv": {"type": "string"},
              "x": {"type": "string"},
              "y": {"type": "string"}
            }
          },
          "publicKeyMultibase": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

func validateSchema(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parse DID document: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("DID document failed schema validation: %s", strings.Join(msgs, "; "))
}
