package relay

import "fmt"

// Kind classifies a handler failure for HTTP status mapping.
type Kind int

const (
	// KindValidation is a missing or malformed request field.
	KindValidation Kind = iota
	// KindNotFound is a reference to a user that was never registered.
	KindNotFound
	// KindUpstream is any failure from a collaborator call.
	KindUpstream
)

// Error is a kind-tagged handler failure. The kind decides the HTTP status at
// the boundary; only validation and not-found messages reach the client.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }

func notFoundErr(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

func upstreamErr(step string, err error) *Error {
	return &Error{Kind: KindUpstream, Msg: step, Err: err}
}
