package progress

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrMalformedDigest is returned when a digest lacks a required section.
var ErrMalformedDigest = errors.New("malformed digest")

// Heading is one section heading of a digest.
type Heading struct {
	Level int
	Text  string
}

// Outline parses a markdown digest and returns its headings in order.
func Outline(markdown string) []Heading {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{Level: h.Level, Text: inlineText(h, src)})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// CheckDigest verifies the digest has a title and a Statistics section,
// plus a Recently Solved section when total is non-zero.
func CheckDigest(markdown string, total int) error {
	seen := make(map[string]bool)
	title := false
	for _, h := range Outline(markdown) {
		switch h.Level {
		case 1:
			title = true
		case 2:
			seen[h.Text] = true
		}
	}
	if !title {
		return fmt.Errorf("%w: missing title", ErrMalformedDigest)
	}
	required := []string{"Statistics"}
	if total > 0 {
		required = append(required, "Recently Solved")
	}
	for _, name := range required {
		if !seen[name] {
			return fmt.Errorf("%w: missing %q section", ErrMalformedDigest, name)
		}
	}
	return nil
}

// SectionCount is the number of list items under one digest section.
type SectionCount struct {
	Heading
	Items int
}

// Sections returns the level-2 and level-3 sections that list at least one
// item, in document order. Repeated heading texts are counted separately.
func Sections(markdown string) []SectionCount {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var all []SectionCount
	current := -1
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			current = -1
			if node.Level >= 2 {
				all = append(all, SectionCount{Heading: Heading{Level: node.Level, Text: inlineText(node, src)}})
				current = len(all) - 1
			}
		case *ast.List:
			if current >= 0 {
				all[current].Items += node.ChildCount()
			}
		}
	}

	out := all[:0]
	for _, sc := range all {
		if sc.Items > 0 {
			out = append(out, sc)
		}
	}
	return out
}
