package crawler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// TruncationMarker is appended to text cut at its character budget.
const TruncationMarker = "\n[truncated]"

// removedElements are dropped together with everything inside them.
var removedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"nav":      true,
	"footer":   true,
	"header":   true,
}

// lineBreakElements end a line when they close.
var lineBreakElements = map[string]bool{
	"p":   true,
	"div": true,
	"li":  true,
	"tr":  true,
	"h1":  true,
	"h2":  true,
	"h3":  true,
	"h4":  true,
	"h5":  true,
	"h6":  true,
}

// ExtractText converts raw HTML into readable plain text of at most maxChars
// characters, plus TruncationMarker when the text had to be cut.
//
// Script, style, navigation and similar chrome is removed with its content,
// comments are dropped, <br> and the end of block elements become line
// breaks, other tags become spaces, and entities are decoded. Whitespace runs
// within a line collapse to one space, every line is trimmed, and empty lines
// are dropped.
func ExtractText(src string, maxChars int) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	writeText(&sb, doc)

	return truncate(cleanWhitespace(sb.String()), maxChars)
}

// writeText renders the text content of n, marking tag boundaries with a
// space and line-breaking boundaries with a newline.
func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if removedElements[name] {
			sb.WriteByte(' ')
			return
		}
		if name == "br" {
			sb.WriteByte('\n')
			return
		}
		sb.WriteByte(' ')
		writeChildren(sb, n)
		if lineBreakElements[name] {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
		return
	default:
		writeChildren(sb, n)
	}
}

func writeChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

// cleanWhitespace collapses horizontal whitespace to single spaces, trims
// every line and drops empty lines.
func cleanWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if r != '\n' && unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}

	lines := strings.Split(sb.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// truncate cuts s to maxChars characters and appends TruncationMarker.
func truncate(s string, maxChars int) string {
	if maxChars < 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxChars]) + TruncationMarker
}
