package runresult

import "errors"

// TestSetFailedError reports an ordinary test-set failure raised by a fork.
// It is the only fork error that is not treated as a harness defect.
type TestSetFailedError struct {
	Fork    int
	Message string
	Cause   error
}

func (e *TestSetFailedError) Error() string {
	return describe(e.Message, e.Cause)
}

func (e *TestSetFailedError) Unwrap() error {
	return e.Cause
}

// BooterError reports that a forked process failed to start or initialize.
type BooterError struct {
	Fork    int
	Message string
	Cause   error
}

func (e *BooterError) Error() string {
	return describe(e.Message, e.Cause)
}

func (e *BooterError) Unwrap() error {
	return e.Cause
}

func describe(message string, cause error) string {
	if message == "" && cause != nil {
		return cause.Error()
	}
	return message
}

// IsTestSetFailure reports whether err is or wraps a TestSetFailedError.
func IsTestSetFailure(err error) bool {
	var tse *TestSetFailedError
	return errors.As(err, &tse)
}

// IsBooterFailure reports whether err is or wraps a BooterError.
func IsBooterFailure(err error) bool {
	var be *BooterError
	return errors.As(err, &be)
}
