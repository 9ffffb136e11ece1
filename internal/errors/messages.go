package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the chlog CLI.
// These templates keep wording and remediation consistent across commands.

// InvalidEntryDate creates an error for a dated heading that is not a real date.
func InvalidEntryDate(path string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("%s: %v", path, err),
		Remediation: []string{
			"Fix the heading so it reads ## [YYYY-MM-DD] with a real calendar date",
			"Or rerun with --lenient-dates to keep such entries unconsolidated",
		},
		Err: err,
	}
}

// InvalidNowValue creates an error for an unparseable --now flag.
func InvalidNowValue(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid --now value %q", value),
		"chlog --now 2024-03-15",
		"Use a date as YYYY-MM-DD or a month as YYYY-MM",
	)
}

// InvalidConfig creates an error for a config file or value that failed validation.
func InvalidConfig(err error) *CLIError {
	cliErr := NewConfigError(
		fmt.Sprintf("invalid configuration: %v", err),
		"Run 'chlog config keys' to list valid keys and their defaults",
		"Run 'chlog config init' to write a commented default config",
	)
	cliErr.Err = err
	return cliErr
}

// SameInputOutput creates an error when input and output resolve to the same file.
func SameInputOutput(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("input and output are the same file: %s", path),
		"Choose a different --output so the source changelog is not overwritten",
	)
}

// NoBatchMatches creates an error when batch patterns match no files.
func NoBatchMatches(patterns []string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no changelog files match %s", strings.Join(patterns, ", ")),
		"Quote patterns so the shell does not expand them: chlog batch '**/CHANGELOG.md'",
		"Check that you are in the right directory",
	)
}

// OutputOutOfSync creates an error when the consolidated file is stale.
func OutputOutOfSync(output string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s is out of date", output),
		"Run 'chlog' to regenerate it",
	)
}

// OutputMissing creates an error when check finds no consolidated file.
func OutputMissing(output string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s does not exist", output),
		"Run 'chlog' to generate it",
	)
}
