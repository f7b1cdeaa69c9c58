// Package errs defines the error kinds reported by music-agent.
//
// Every failure that leaves a component is wrapped with exactly one of the
// kinds below, so callers can classify it with errors.Is while still reaching
// the underlying cause.
package errs

import "errors"

var (
	// ErrFileAccess covers missing or unreadable sources, missing
	// suggestions files and write failures.
	ErrFileAccess = errors.New("file access error")

	// ErrMetadataParse covers tag codec failures and suggestions file
	// encode/decode failures.
	ErrMetadataParse = errors.New("metadata parse error")

	// ErrModelRequest covers transport failures and non-success responses
	// from the model endpoint.
	ErrModelRequest = errors.New("model request failed")

	// ErrModelResponse covers response bodies that are not in the expected shape.
	ErrModelResponse = errors.New("model response invalid")

	// ErrConfig covers invalid configuration and command-line usage.
	ErrConfig = errors.New("configuration error")
)
