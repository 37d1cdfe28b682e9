package protocol

import (
	"errors"
	"fmt"
)

// ErrInvalidHeaderFormat is returned when an Authorization header does
// not begin with the DIDWba scheme token.
var ErrInvalidHeaderFormat = errors.New("authorization header is not a DIDWba header")

// MissingFieldError reports a required key="value" field absent from a
// parsed header. Which fields are required depends on the parse variant
// (mutual headers additionally require resp_did).
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("auth header missing required field %q", e.Field)
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var mfe *MissingFieldError
	return errors.As(err, &mfe)
}
