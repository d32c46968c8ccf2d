package framework

import (
	"fmt"
	"unicode/utf8"
)

// SnippetLength is the maximum number of bytes of a response body quoted in a ProtocolError.
const SnippetLength = 200

// TransportError means that no HTTP response was received at all: DNS failure, refused
// connection, timeout.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %s", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError means that the backend answered, but not in the expected way: wrong status
// code, body that is not JSON, missing field, or a value that does not match.
type ProtocolError struct {
	Operation string
	Status    int
	Detail    string
	Body      string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s status=%d body=%s", e.Operation, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s (status=%d body=%s)", e.Operation, e.Detail, e.Status, e.Body)
}

// MissingContextError means that a step needed a value that an earlier step should have put in
// the Shared store. It usually points at an earlier failure, not at a backend defect.
type MissingContextError struct {
	Key string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("missing context %q (not populated by an earlier step)", e.Key)
}

// Snippet returns at most SnippetLength bytes of body, without cutting a UTF-8 sequence in half.
func Snippet(body []byte) string {
	if len(body) <= SnippetLength {
		return string(body)
	}
	cut := SnippetLength
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
