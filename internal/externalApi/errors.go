package externalApi

import "errors"

var (
	// ErrNotFound means the source answered but no price could be parsed.
	ErrNotFound = errors.New("price not found")
	// ErrTransport covers network, status and body decoding failures.
	ErrTransport = errors.New("price source transport error")
)
