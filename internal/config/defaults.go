package config

import "time"

// Default values for every configuration key.
const (
	DefaultInput         = "CHANGELOG.md"
	DefaultOutput        = "CHANGELOG_Consolidated.md"
	DefaultBatchParallel = 4
	DefaultWatchDebounce = 500 * time.Millisecond
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# chlog configuration
# See 'chlog config keys' for all options

input: CHANGELOG.md                   # Changelog to consolidate
output: CHANGELOG_Consolidated.md     # Consolidated file (overwritten on every run)
lenient_dates: false                  # Keep entries with impossible dates instead of failing
plain: false                          # Disable colors and icons
discover: false                       # Look for changelog.md or the repository root's changelog when input is missing

# Batch mode
batch_parallel: 4                     # Files consolidated at once (1-64)

# Watch mode
watch_debounce: 500ms                 # Quiet period before re-running after a change
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"input":         DefaultInput,
		"output":        DefaultOutput,
		"lenient_dates": false,
		"plain":         false,
		"discover":      false,
		// batch_parallel: upper bound on concurrently consolidated files in 'chlog batch'.
		"batch_parallel": DefaultBatchParallel,
		// watch_debounce: editors often write a file in several steps; wait for quiet.
		"watch_debounce": DefaultWatchDebounce.String(),
	}
}
