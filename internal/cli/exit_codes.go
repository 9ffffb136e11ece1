package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/chlog/internal/errors"
)

// Exit codes for the chlog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailed indicates consolidation, validation, or a check failed
	ExitFailed = 1

	// ExitInvalidArguments indicates invalid command arguments or flags
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates required files are missing
	ExitMissingPrerequisites = 4
)

// exitError carries an exit code after its message has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError returns an error that makes Execute exit with code
// without printing anything further.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingPrerequisites
		}
	}

	return ExitFailed
}
