package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Counter shows "label (done/total)" next to a spinner while work runs,
// then a single result line. Without a TTY only the result line is printed.
type Counter struct {
	out     io.Writer
	label   string
	caps    TerminalCapabilities
	symbols ProgressSymbols

	mu   sync.Mutex
	spin *spinner.Spinner
}

// NewCounter creates a Counter writing to out.
func NewCounter(out io.Writer, label string, caps TerminalCapabilities) *Counter {
	return &Counter{
		out:     out,
		label:   label,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Symbols returns the markers the counter uses.
func (c *Counter) Symbols() ProgressSymbols {
	return c.symbols
}

// Start begins the spinner for total units of work.
func (c *Counter) Start(total int) {
	if !c.caps.IsTTY {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.spin = spinner.New(spinner.CharSets[c.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(c.out))
	c.spin.Suffix = c.suffix(0, total)
	c.spin.Start()
}

// Update records progress. Safe for concurrent use.
func (c *Counter) Update(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.spin == nil {
		return
	}
	c.spin.Lock()
	c.spin.Suffix = c.suffix(done, total)
	c.spin.Unlock()
}

// Stop ends the spinner and prints msg prefixed with a success or failure marker.
func (c *Counter) Stop(ok bool, msg string) {
	c.mu.Lock()
	if c.spin != nil {
		c.spin.Stop()
		c.spin = nil
	}
	c.mu.Unlock()

	mark := c.symbols.Checkmark
	if !ok {
		mark = c.symbols.Failure
	}
	fmt.Fprintf(c.out, "%s %s\n", mark, msg)
}

func (c *Counter) suffix(done, total int) string {
	return fmt.Sprintf(" %s (%d/%d)", c.label, done, total)
}
