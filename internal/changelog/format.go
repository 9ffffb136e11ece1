package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps lowercase category names to their terminal styling.
// Categories without a style use defaultStyle.
var categoryStyles = map[string]CategoryStyle{
	"added":      {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":    {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated": {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":    {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgWhite), Icon: "•"}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// styleFor returns the style of a category name, case-insensitively.
func styleFor(category string) CategoryStyle {
	if style, ok := categoryStyles[strings.ToLower(NormalizeCategory(category))]; ok {
		return style
	}
	return defaultStyle
}

// FormatOutline writes an outline as an indented tree.
func FormatOutline(sections []Section, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for _, section := range sections {
		if err := writeSectionHeader(section, w, opts, width); err != nil {
			return fmt.Errorf("formatting section %s: %w", section.Title, err)
		}
		for _, sub := range section.Subsections {
			if err := writeSubsection(sub, w, opts); err != nil {
				return fmt.Errorf("formatting section %s: %w", section.Title, err)
			}
		}
	}

	return nil
}

// writeSectionHeader writes a level-2 section line with its item total.
func writeSectionHeader(s Section, w io.Writer, opts FormatOptions, width int) error {
	title := truncateText(s.Title, width-16)
	count := pluralize(s.TotalItems(), "item")

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s (%s)\n", title, count)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s %s\n", bold(title), faint("("+count+")"))
	return err
}

// writeSubsection writes one category line under a section.
func writeSubsection(s Section, w io.Writer, opts FormatOptions) error {
	count := pluralize(s.Items, "item")

	if opts.Plain {
		_, err := fmt.Fprintf(w, "  ### %s (%s)\n", s.Title, count)
		return err
	}

	style := styleFor(s.Title)
	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "  %s %s (%s)\n", colored(style.Icon), colored(s.Title), count)
	return err
}

// FormatStats writes a one-line summary of a consolidation run.
func FormatStats(stats Stats, w io.Writer, opts FormatOptions) error {
	line := fmt.Sprintf("%s kept, %s merged into %s, %s total",
		pluralize(stats.KeptEntries, "entry"),
		pluralize(stats.MergedEntries, "entry"),
		pluralize(stats.Months, "month"),
		pluralize(stats.Items, "item"))

	if opts.Plain {
		_, err := fmt.Fprintln(w, line)
		return err
	}

	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintln(w, faint(line))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if maxLen < 4 || len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// pluralize formats a count with a noun, e.g. "1 entry" or "3 entries".
func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
