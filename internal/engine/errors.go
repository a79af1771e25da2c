package engine

import "fmt"

// QueryError wraps an engine-level failure with the offending query, so
// callers can surface it under the QUERY_ERROR taxonomy code.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v (query: %s)", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error { return e.Err }
