package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

const (
	// ExitSuccess indicates the request succeeded
	ExitSuccess = 0

	// ExitRequestFailure indicates a validation abort or a failed bench threshold
	ExitRequestFailure = 1

	// ExitParseError indicates a declaration file parsing error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates the dispatched request never produced a response
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for an error
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, request.ErrInvalidEndpoint) || errors.Is(err, request.ErrMissingResultType) {
		return ExitUsageError
	}
	return ExitRequestFailure
}

// resultExitCode maps a synthesized failure result to its exit code
func resultExitCode(res *request.Result) int {
	switch {
	case res.Status == request.StatusValidationFailed:
		return ExitRequestFailure
	case res.Failed():
		return ExitNetworkError
	default:
		return ExitSuccess
	}
}
