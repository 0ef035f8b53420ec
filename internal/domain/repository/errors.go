package repository

import "errors"

// Store errors. Callers match with errors.Is; implementations wrap them.
var (
	// ErrConnection means the store could not be reached.
	ErrConnection = errors.New("store unreachable")
	// ErrQuery means the filter was rejected, locally or by the server.
	ErrQuery = errors.New("invalid query")
	// ErrNotFound means a looked up entity does not exist.
	ErrNotFound = errors.New("not found")
)
