package reducer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"doxreduce/internal/adapter/dom"
)

var nbspReplacer = strings.NewReplacer("&nbsp;", "", "&#160;", "")

// RemoveNonBreakingSpaces deletes both entity forms of the non-breaking space.
func RemoveNonBreakingSpaces(input string) (string, error) {
	return nbspReplacer.Replace(input), nil
}

var signatureRewrites = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`&lt; +`), "&lt;"},
	{regexp.MustCompile(` +&gt;`), "&gt;"},
	{regexp.MustCompile(` +(\*|&amp;) *</td>`), "$1</td>"},
	{regexp.MustCompile(`(&lt;[^\n]*?) +((?:\*|&amp;)&gt;)`), "$1$2"},
}

// CompactSignature collapses the spacing the generator puts around template
// brackets and pointer or reference sigils in serialized markup.
func CompactSignature(markup string) string {
	for _, r := range signatureRewrites {
		markup = r.re.ReplaceAllString(markup, r.repl)
	}
	return markup
}

const signatureSelector = `div.memproto, tr[class^="memitem"], div.header`

func stripUnwantedWhitespace(d *dom.Document) (bool, error) {
	changed := false

	for _, n := range outermost(d.Find(signatureSelector).Nodes) {
		if dom.First(n, ".fragment") != nil {
			continue
		}
		markup, err := dom.OuterHTML(n)
		if err != nil {
			return false, err
		}
		compact := CompactSignature(markup)
		if compact == markup {
			continue
		}
		if err := dom.ReplaceWithHTML(n, compact); err != nil {
			return false, err
		}
		changed = true
	}

	for _, table := range FunctionDeclTables(d.Root()) {
		for _, cell := range memberNameCells(table) {
			params := secondChild(cell)
			if params == nil || params.Type != html.TextNode {
				continue
			}
			trimmed := strings.TrimLeftFunc(params.Data, unicode.IsSpace)
			if trimmed != params.Data {
				params.Data = trimmed
				changed = true
			}
		}
	}

	return changed, nil
}

// outermost drops every node that has an ancestor in nodes.
func outermost(nodes []*html.Node) []*html.Node {
	set := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	var out []*html.Node
	for _, n := range nodes {
		nested := false
		for p := n.Parent; p != nil; p = p.Parent {
			if set[p] {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}
