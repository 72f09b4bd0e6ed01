package qbo

import (
	"errors"
	"fmt"
)

// ErrTokenNotSet is returned by every operation attempted before
// SetToken has supplied a realm id and access token.
var ErrTokenNotSet = errors.New("qbo: token not set")

// QueryError means the service answered a query without the
// QueryResponse envelope. The raw body is kept for diagnosis.
type QueryError struct {
	Query string
	Body  string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("qbo: query %q failed: %s", e.Query, e.Body)
}

// ResponseError means a create call came back without the expected
// entity envelope. The service reports some logical failures this way
// on a 2xx status, so it is treated as a failed create.
type ResponseError struct {
	Entity string
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("qbo: creating %s failed: %s", e.Entity, e.Body)
}

// ConflictError means a name lookup matched more than one entity, an
// ambiguity the client refuses to resolve on its own.
type ConflictError struct {
	Name  string
	Count int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("qbo: %d accounts named %q", e.Count, e.Name)
}
