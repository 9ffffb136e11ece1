package changelog

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	// entryHeadingPattern matches a dated entry heading such as "## [2024-03-01]".
	// Anything after the closing bracket is ignored.
	entryHeadingPattern = regexp.MustCompile(`^## \[(\d{4}-\d{2}-\d{2})\]`)

	// categoryHeadingPattern matches "### Word", capturing the first word.
	categoryHeadingPattern = regexp.MustCompile(`^### ([\p{L}\p{N}_]+)`)
)

// dateLayout is the layout of the date inside an entry heading.
const dateLayout = "2006-01-02"

// DateError reports an entry heading whose date is not a real calendar date,
// such as "## [2024-13-40]".
type DateError struct {
	Line int
	Text string
	Err  error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("line %d: invalid entry date %q: %v", e.Line, e.Text, e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

// IsDateError returns true if the error is a DateError.
func IsDateError(err error) bool {
	var de *DateError
	return errors.As(err, &de)
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	lenient bool
	logger  *slog.Logger
}

// WithLenientDates makes Parse keep entries with invalid dates instead of
// failing. Such entries are marked Unparsed and passed through as-is.
func WithLenientDates(lenient bool) ParseOption {
	return func(c *parseConfig) {
		c.lenient = lenient
	}
}

// WithLogger sets the logger used for parse warnings.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// scanState is the position of the scanner relative to the first entry.
type scanState int

const (
	stateBeforeFirstEntry scanState = iota
	stateWithinEntry
)

// scanner turns lines into a Document. It holds the open entry and the
// category that subsequent item lines are filed under.
type scanner struct {
	cfg      parseConfig
	state    scanState
	doc      *Document
	entry    *Entry
	category string
}

// Parse scans a changelog into its header and dated entries.
// Lines keep their terminators. With default options, an entry heading
// with an impossible date returns a *DateError.
func Parse(src []byte, opts ...ParseOption) (*Document, error) {
	cfg := parseConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &scanner{
		cfg:   cfg,
		state: stateBeforeFirstEntry,
		doc:   &Document{},
	}

	for i, line := range SplitLines(src) {
		if err := s.scanLine(i+1, line); err != nil {
			return nil, err
		}
	}
	s.closeEntry()

	return s.doc, nil
}

// scanLine advances the scanner by one line.
func (s *scanner) scanLine(lineNo int, line string) error {
	if m := entryHeadingPattern.FindStringSubmatch(line); m != nil {
		return s.openEntry(lineNo, m[1])
	}

	switch s.state {
	case stateBeforeFirstEntry:
		s.doc.Header = append(s.doc.Header, line)
	case stateWithinEntry:
		s.scanEntryLine(line)
	}
	return nil
}

// openEntry closes the current entry and starts a new one for rawDate.
func (s *scanner) openEntry(lineNo int, rawDate string) error {
	entry := Entry{
		RawDate:    rawDate,
		Categories: NewCategories(InsertionOrder),
		Line:       lineNo,
	}

	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		if !s.cfg.lenient {
			return &DateError{Line: lineNo, Text: rawDate, Err: err}
		}
		s.cfg.logger.Warn("keeping entry with invalid date unconsolidated",
			"line", lineNo, "date", rawDate, "error", err)
		entry.Unparsed = true
	} else {
		entry.Date = date
	}

	s.closeEntry()
	s.entry = &entry
	s.category = Uncategorized
	s.state = stateWithinEntry
	return nil
}

// scanEntryLine files a line inside an entry. Lines that are neither a
// category heading nor an item are dropped.
func (s *scanner) scanEntryLine(line string) {
	if m := categoryHeadingPattern.FindStringSubmatch(line); m != nil {
		s.category = m[1]
		s.entry.Categories.Ensure(s.category)
		return
	}

	if isItemLine(line) {
		s.entry.Categories.Append(s.category, line)
	}
}

// closeEntry appends the open entry, if any, to the document.
func (s *scanner) closeEntry() {
	if s.entry == nil {
		return
	}
	s.doc.Entries = append(s.doc.Entries, *s.entry)
	s.entry = nil
}

// isItemLine reports whether line is a bullet ("-" or "*" after trimming)
// or an indented continuation with visible content.
func isItemLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
		return true
	}
	return strings.HasPrefix(line, " ") && trimmed != ""
}

// SplitLines splits src after each "\n", keeping the terminator.
// A final line without a terminator is returned as-is.
func SplitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(src), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
