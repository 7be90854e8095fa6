package cli

// ExitNoMatch is the exit status of `fth match` when no pattern matches.
const ExitNoMatch = 2

// ExitError carries a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
