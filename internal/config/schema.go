package config

import "sort"

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type.
type ConfigKeySchema struct {
	Path        string          // Key name as used in config files
	Type        ConfigValueType // Expected value type
	Description string          // Human-readable description for help text
	Default     interface{}     // Default value
}

// EnvVar returns the environment variable that sets the key.
func (s ConfigKeySchema) EnvVar() string {
	return envName(s.Path)
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"input": {
		Path:        "input",
		Type:        TypeString,
		Description: "Changelog to consolidate",
		Default:     DefaultInput,
	},
	"output": {
		Path:        "output",
		Type:        TypeString,
		Description: "Consolidated file, overwritten on every run",
		Default:     DefaultOutput,
	},
	"lenient_dates": {
		Path:        "lenient_dates",
		Type:        TypeBool,
		Description: "Keep entries with impossible dates unconsolidated instead of failing",
		Default:     false,
	},
	"plain": {
		Path:        "plain",
		Type:        TypeBool,
		Description: "Disable colors and icons",
		Default:     false,
	},
	"discover": {
		Path:        "discover",
		Type:        TypeBool,
		Description: "Find changelog.md or the repository root changelog when input is missing",
		Default:     false,
	},
	"batch_parallel": {
		Path:        "batch_parallel",
		Type:        TypeInt,
		Description: "Files consolidated at once by 'chlog batch' (1-64)",
		Default:     DefaultBatchParallel,
	},
	"watch_debounce": {
		Path:        "watch_debounce",
		Type:        TypeDuration,
		Description: "Quiet period before 'chlog watch' re-runs after a change",
		Default:     DefaultWatchDebounce.String(),
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns every known key schema ordered by key name.
func SortedKeys() []ConfigKeySchema {
	keys := make([]ConfigKeySchema, 0, len(KnownKeys))
	for _, schema := range KnownKeys {
		keys = append(keys, schema)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Path < keys[j].Path
	})
	return keys
}
