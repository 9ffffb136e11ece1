package changelog

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is a heading in a changelog outline with the number of list
// items beneath it, nested items included.
type Section struct {
	Title       string    `yaml:"title"`
	Items       int       `yaml:"items"`
	Subsections []Section `yaml:"subsections,omitempty"`
}

// TotalItems returns the items of the section and all of its subsections.
func (s Section) TotalItems() int {
	total := s.Items
	for _, sub := range s.Subsections {
		total += sub.TotalItems()
	}
	return total
}

// Outline parses src as Markdown and returns its level-2 sections with
// their level-3 subsections. Content before the first level-2 heading,
// and level-3 headings outside any section, are not part of the outline.
func Outline(src []byte) []Section {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var sections []Section
	var current *Section
	var sub *Section

	flushSub := func() {
		if current != nil && sub != nil {
			current.Subsections = append(current.Subsections, *sub)
		}
		sub = nil
	}
	flushSection := func() {
		flushSub()
		if current != nil {
			sections = append(sections, *current)
		}
		current = nil
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			title := headingTitle(inlineText(node, src))
			switch node.Level {
			case 2:
				flushSection()
				current = &Section{Title: title}
			case 3:
				flushSub()
				if current != nil {
					sub = &Section{Title: title}
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			switch {
			case sub != nil:
				sub.Items++
			case current != nil:
				current.Items++
			}
		}

		return ast.WalkContinue, nil
	})
	flushSection()

	return sections
}

// inlineText concatenates the text segments under n, dropping inline
// markup such as emphasis and code span delimiters.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

// headingTitle drops the brackets around a title such as "[January 2024]".
func headingTitle(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		return text[1 : len(text)-1]
	}
	return text
}
