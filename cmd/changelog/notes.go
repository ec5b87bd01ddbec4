package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Release is one version section of the release notes.
type Release struct {
	Version string
	Date    string
	Body    string
}

// Notes is a parsed Keep a Changelog file.
type Notes struct {
	Releases []Release
	Links    map[string]string
}

// Lookup finds a release by version, tolerating a leading "v".
func (n *Notes) Lookup(version string) *Release {
	version = strings.TrimPrefix(version, "v")

	for i := range n.Releases {
		if strings.TrimPrefix(n.Releases[i].Version, "v") == version {
			return &n.Releases[i]
		}
	}
	return nil
}

// ParseNotes parses a Keep a Changelog formatted markdown document. Each
// level-2 heading opens a release; its body runs until the next one.
func ParseNotes(source []byte) (*Notes, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	ctx := parser.NewContext()
	doc := md.Parser().Parse(reader, parser.WithContext(ctx))

	notes := &Notes{
		Links: make(map[string]string),
	}

	for _, ref := range ctx.References() {
		notes.Links[string(ref.Label())] = string(ref.Destination())
	}

	type section struct {
		version   string
		date      string
		bodyStart int
		headStart int
	}
	var sections []section

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := splitVersionHeading(headingText(heading, source))

		lines := heading.Lines()
		headStart := 0
		bodyStart := 0
		if lines.Len() > 0 {
			headStart = lines.At(0).Start
			bodyStart = lines.At(lines.Len() - 1).Stop
		}

		sections = append(sections, section{
			version:   version,
			date:      date,
			bodyStart: bodyStart,
			headStart: headStart,
		})
		return ast.WalkContinue, nil
	})

	for i, s := range sections {
		bodyEnd := len(source)
		if i+1 < len(sections) {
			bodyEnd = sections[i+1].headStart
		}

		body := ""
		if s.bodyStart < bodyEnd {
			body = strings.TrimSpace(string(source[s.bodyStart:bodyEnd]))
		}

		notes.Releases = append(notes.Releases, Release{
			Version: s.version,
			Date:    s.date,
			Body:    body,
		})
	}

	return notes, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.Link:
			for lc := c.FirstChild(); lc != nil; lc = lc.NextSibling() {
				if textNode, ok := lc.(*ast.Text); ok {
					buf.Write(textNode.Segment.Value(source))
				}
			}
		}
	}
	return buf.String()
}

// splitVersionHeading splits "## [X.Y.Z] - YYYY-MM-DD" (or the bare
// "X.Y.Z - YYYY-MM-DD" form) into version and date.
func splitVersionHeading(heading string) (version, date string) {
	heading = strings.TrimSpace(heading)

	heading = strings.TrimPrefix(heading, "[")
	if idx := strings.Index(heading, "]"); idx != -1 {
		version = heading[:idx]
		rest := strings.TrimSpace(heading[idx+1:])
		if strings.HasPrefix(rest, "- ") {
			date = strings.TrimSpace(rest[2:])
		}
	} else if idx := strings.Index(heading, " - "); idx != -1 {
		version = strings.TrimSpace(heading[:idx])
		date = strings.TrimSpace(heading[idx+3:])
	} else {
		version = heading
	}

	return version, date
}
