package cmd

import "fmt"

const (
	ExitSendFailed   = 3
	ExitSearchFailed = 4
)

// ExitError asks main to terminate with Code instead of the generic 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%v (exit %d)", e.Err, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
