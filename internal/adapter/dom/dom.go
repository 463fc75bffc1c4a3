// Package dom parses generated documentation HTML into a mutable tree and
// renders it back.
//
// Full documents go through the HTML5 document parser. A document is any
// input whose first markup, after a prolog of byte order mark, whitespace,
// comments and XML declarations, is a doctype or an html, head or body tag.
// The prolog is kept verbatim and written back in front of the rendered tree.
// Anything else is treated as a fragment and parsed in a <body> context
// inside a detached container node, which is never rendered.
// The tokenizer keeps every text node's whitespace verbatim, so embedded code
// samples survive a parse/render round trip without a wrapping <pre>.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document or fragment.
type Document struct {
	*goquery.Document
	root     *html.Node
	fragment bool
	prolog   string
}

var documentStarts = []string{"<!doctype", "<html", "<head", "<body"}

// Parse parses content as a full document or as a fragment.
func Parse(content string) (*Document, error) {
	if prolog, rest, ok := splitProlog(content); ok {
		root, err := html.Parse(strings.NewReader(rest))
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		return &Document{Document: goquery.NewDocumentFromNode(root), root: root, prolog: prolog}, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{Document: goquery.NewDocumentFromNode(root), root: root, fragment: true}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// IsFragment reports whether the input was parsed as a fragment.
func (d *Document) IsFragment() bool {
	return d.fragment
}

// Render serializes the document back to HTML.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	if !d.fragment {
		b.WriteString(d.prolog)
		if err := html.Render(&b, d.root); err != nil {
			return "", err
		}
		return b.String(), nil
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// splitProlog separates the leading byte order mark, whitespace, comments and
// XML declarations from the rest of content. ok reports whether the rest
// opens a full document.
func splitProlog(content string) (prolog, rest string, ok bool) {
	i := len(content) - len(strings.TrimPrefix(content, "\ufeff"))
	for {
		i += len(content[i:]) - len(strings.TrimLeft(content[i:], " \t\n\r\f"))

		var end string
		switch {
		case strings.HasPrefix(content[i:], "<!--"):
			end = "-->"
		case strings.HasPrefix(content[i:], "<?"):
			end = "?>"
		}
		if end == "" {
			break
		}
		n := strings.Index(content[i+2:], end)
		if n < 0 {
			return "", content, false
		}
		i += 2 + n + len(end)
	}

	head := strings.ToLower(content[i:min(len(content), i+len("<!doctype")+1)])
	for _, start := range documentStarts {
		if !strings.HasPrefix(head, start) {
			continue
		}
		// <header> is not <head>.
		if len(head) == len(start) || strings.IndexByte(" \t\n\r\f/>", head[len(start)]) >= 0 {
			return content[:i], content[i:], true
		}
	}
	return "", content, false
}

// Select runs a CSS selector against the descendants of n.
func Select(n *html.Node, selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Find(selector)
}

// First returns the first descendant of n matching selector, or nil.
func First(n *html.Node, selector string) *html.Node {
	sel := Select(n, selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Nodes[0]
}
