package changelog

import (
	"sort"
	"time"
)

// Uncategorized is the category that collects item lines appearing in an
// entry before any category heading.
const Uncategorized = "Uncategorized"

// Ordering selects how a Categories mapping iterates its names.
type Ordering int

const (
	// InsertionOrder iterates names in the order they were first seen.
	InsertionOrder Ordering = iota
	// Alphabetical iterates names sorted ascending.
	Alphabetical
)

// String returns a human-readable name for the ordering.
func (o Ordering) String() string {
	switch o {
	case InsertionOrder:
		return "insertion"
	case Alphabetical:
		return "alphabetical"
	default:
		return "unknown"
	}
}

// Categories maps category names to the raw item lines filed under them.
// The iteration order of Names is fixed when the mapping is created.
// A category may exist with no items; it is still rendered.
type Categories struct {
	ordering Ordering
	names    []string
	items    map[string][]string
}

// NewCategories creates an empty mapping with the given ordering.
func NewCategories(ordering Ordering) *Categories {
	return &Categories{
		ordering: ordering,
		items:    make(map[string][]string),
	}
}

// Ordering returns the iteration order of the mapping.
func (c *Categories) Ordering() Ordering {
	return c.ordering
}

// Ensure registers name without adding items.
func (c *Categories) Ensure(name string) {
	if _, ok := c.items[name]; ok {
		return
	}
	c.names = append(c.names, name)
	c.items[name] = []string{}
}

// Append adds lines to name, registering it first if needed.
func (c *Categories) Append(name string, lines ...string) {
	c.Ensure(name)
	c.items[name] = append(c.items[name], lines...)
}

// Has reports whether name is registered.
func (c *Categories) Has(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Names returns the registered category names in the mapping's order.
func (c *Categories) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	if c.ordering == Alphabetical {
		sort.Strings(names)
	}
	return names
}

// Items returns the lines filed under name.
func (c *Categories) Items(name string) []string {
	return c.items[name]
}

// Len returns the number of registered categories.
func (c *Categories) Len() int {
	return len(c.names)
}

// ItemCount returns the total number of item lines across all categories.
func (c *Categories) ItemCount() int {
	count := 0
	for _, lines := range c.items {
		count += len(lines)
	}
	return count
}

// Entry is one "## [YYYY-MM-DD]" section of a changelog.
type Entry struct {
	// Date is the calendar date from the heading. Zero when Unparsed.
	Date time.Time
	// RawDate is the bracketed heading text exactly as written.
	RawDate string
	// Categories holds item lines in first-seen category order.
	Categories *Categories
	// Line is the 1-based line number of the heading.
	Line int
	// Unparsed marks an entry whose heading date is not a real calendar date.
	// Only produced by lenient parsing; such entries are never consolidated.
	Unparsed bool
}

// MonthKey returns the "YYYY-MM" key of the entry's date.
func (e Entry) MonthKey() string {
	return MonthKey(e.Date)
}

// Document is a parsed changelog: the preamble and its dated entries in file order.
type Document struct {
	Header  []string
	Entries []Entry
}

// MonthBucket holds the merged categories of every prior-month entry in one month.
type MonthBucket struct {
	// Key is the "YYYY-MM" month key.
	Key string
	// Month is the first day of the month.
	Month time.Time
	// Categories holds normalized category names in alphabetical order.
	Categories *Categories
	// Entries is how many entries were merged into the bucket.
	Entries int
}

// Title returns the heading text of the bucket, e.g. "March 2024".
func (b MonthBucket) Title() string {
	return b.Month.Format("January 2006")
}

// Result is a consolidated changelog ready to render.
type Result struct {
	Header []string
	// Kept are the current-month (and unparsed) entries in file order.
	Kept []Entry
	// Months are the consolidated prior months, newest first.
	Months []MonthBucket
}

// MonthKey formats t as a zero-padded "YYYY-MM" key in t's own location.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
