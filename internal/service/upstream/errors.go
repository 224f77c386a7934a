package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"

	xhttp "StatPull/pkg/http"
)

// Kind classifies why an upstream call produced no data.
type Kind string

const (
	KindTimeout Kind = "timeout"
	KindStatus  Kind = "status"
	KindNetwork Kind = "network"
	KindSchema  Kind = "schema"
)

// Error is the failure side of every upstream call.
type Error struct {
	Kind     Kind
	Resource string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: %s (status %d): %v", e.Resource, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("upstream %s: %s: %v", e.Resource, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an upstream *Error of kind k.
func IsKind(err error, k Kind) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Kind == k
}

func schemaError(resource string, format string, a ...interface{}) *Error {
	return &Error{Kind: KindSchema, Resource: resource, Err: fmt.Errorf(format, a...)}
}

// classify maps a transport level error from pkg/http to an *Error.
func classify(resource string, err error) *Error {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return &Error{Kind: KindStatus, Resource: resource, Status: se.StatusCode, Err: err}
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &Error{Kind: KindTimeout, Resource: resource, Err: err}
	}

	return &Error{Kind: KindNetwork, Resource: resource, Err: err}
}
