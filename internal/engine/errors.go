package engine

import "github.com/cockroachdb/errors"

var (
	// ErrValidation indicates the settings are not valid to start a run.
	ErrValidation = errors.New("validation failed")

	// ErrPostFailed indicates a setup failed to post-process.
	ErrPostFailed = errors.New("post-processing failed")
)
