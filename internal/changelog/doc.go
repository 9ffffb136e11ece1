// Package changelog consolidates date-stamped changelog documents by month.
//
// This package implements:
//   - A line scanner that reads a header preamble and "## [YYYY-MM-DD]" entries
//     with "### Category" groups of raw item lines
//   - Partitioning of entries into the current month (kept as dated entries)
//     and prior months (merged into one bucket per month)
//   - Deterministic rendering of the consolidated document
//   - A goldmark-based outline of any changelog Markdown for inspection
//   - File-level helpers used by the CLI, batch, and watch modes
//
// Item lines are never rewritten: they are carried from input to output
// byte for byte, including their line terminators.
package changelog
