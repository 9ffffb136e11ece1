package changelog

import (
	"bytes"
	"fmt"
	"io"
)

// Render writes the consolidated document to w.
//
// The header comes first, verbatim. Each kept entry follows as its own
// "## [YYYY-MM-DD]" section with categories in first-seen order, then each
// month bucket, newest first, as "## [Month YYYY]" with categories sorted.
// Item lines are written exactly as they were read.
//
// The function is deterministic - given the same result, it produces identical output.
func Render(r *Result, w io.Writer) error {
	for _, line := range r.Header {
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("rendering header: %w", err)
		}
	}

	for _, entry := range r.Kept {
		if err := renderSection(entry.RawDate, entry.Categories, w); err != nil {
			return fmt.Errorf("rendering entry %s: %w", entry.RawDate, err)
		}
	}

	for _, month := range r.Months {
		if err := renderSection(month.Title(), month.Categories, w); err != nil {
			return fmt.Errorf("rendering month %s: %w", month.Key, err)
		}
	}

	return nil
}

// Bytes renders the result into a new byte slice.
func (r *Result) Bytes() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes only fail by panicking on out-of-memory.
	_ = Render(r, &buf)
	return buf.Bytes()
}

// renderSection writes one "## [title]" section and its categories in the
// mapping's own order.
func renderSection(title string, cats *Categories, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\n## [%s]\n\n", title); err != nil {
		return err
	}

	for _, name := range cats.Names() {
		if err := renderCategory(name, cats.Items(name), w); err != nil {
			return err
		}
	}

	return nil
}

// renderCategory writes a category heading and its raw item lines.
func renderCategory(name string, lines []string, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "### %s\n\n", name); err != nil {
		return err
	}

	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	return nil
}
