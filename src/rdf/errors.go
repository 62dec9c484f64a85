package rdf

import "fmt"

// SerializationError is raised when a term cannot be rendered in canonical
// lexical form, or when a payload cannot be parsed. It indicates malformed
// input and is never recoverable locally.
type SerializationError struct {
	msg   string
	token string
}

// NewSerializationError ...
func NewSerializationError(msg, token string) SerializationError {
	return SerializationError{
		msg:   msg,
		token: token,
	}
}

// Error implements the error interface
func (e SerializationError) Error() string {
	return fmt.Sprintf("rdf: %s: %q", e.msg, e.token)
}

// IsSerialization checks that an error is of type SerializationError.
func IsSerialization(err error) bool {
	_, ok := err.(SerializationError)
	return ok
}
