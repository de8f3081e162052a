package cli

import (
	"errors"

	"socialnet/internal/models"
)

const (
	ExitCodeSuccess    = 0
	ExitCodeGeneric    = 1
	ExitCodeUsage      = 2
	ExitCodeNotFound   = 3
	ExitCodeConflict   = 4
	ExitCodeAuthFailed = 5
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

// withExitCode attaches an exit code derived from the AppError code, if any.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return err
	}
	switch models.ErrorCode(err) {
	case models.CodeValidation:
		return &ExitError{Code: ExitCodeUsage, Err: err}
	case models.CodeNotFound:
		return &ExitError{Code: ExitCodeNotFound, Err: err}
	case models.CodeConflict, models.CodeForeignKeyViolation:
		return &ExitError{Code: ExitCodeConflict, Err: err}
	case models.CodeUnauthorized:
		return &ExitError{Code: ExitCodeAuthFailed, Err: err}
	default:
		return &ExitError{Code: ExitCodeGeneric, Err: err}
	}
}

func usageError(err error) error {
	return &ExitError{Code: ExitCodeUsage, Err: err}
}
