package reducer

import (
	"strings"

	"golang.org/x/net/html"

	"doxreduce/internal/adapter/dom"
)

// Anchors the generator places in each declaration table, used when the
// heading text has been altered.
var declTableAnchors = map[string]string{
	"functions":                "func-members",
	"public member functions":  "pub-methods",
	"private member functions": "pri-methods",
	"variables":                "var-members",
}

var functionTableHeadings = []string{
	"Functions",
	"Public member functions",
	"Private member functions",
}

// DeclTable returns the member declaration table whose group header reads
// heading (case-insensitive), or nil.
func DeclTable(root *html.Node, heading string) *html.Node {
	want := strings.ToLower(heading)

	for _, table := range dom.Select(root, "#doc-content table.memberdecls").Nodes {
		header := dom.First(table, ".groupheader")
		if header == nil {
			continue
		}
		for c := header.FirstChild; c != nil; c = c.NextSibling {
			if s, ok := dom.LeafText(c); ok && strings.ToLower(strings.TrimSpace(s)) == want {
				return table
			}
		}
	}

	if name, ok := declTableAnchors[want]; ok {
		if a := dom.First(root, `#doc-content table.memberdecls a[name="`+name+`"]`); a != nil {
			return dom.Closest(a, "table", "memberdecls")
		}
	}
	return nil
}

// FunctionDeclTables returns the free, public and private function
// declaration tables that exist in the document.
func FunctionDeclTables(root *html.Node) []*html.Node {
	var tables []*html.Node
	seen := make(map[*html.Node]bool)
	for _, h := range functionTableHeadings {
		t := DeclTable(root, h)
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		tables = append(tables, t)
	}
	return tables
}

// memberNameCells returns the right-hand cells of the table's declaration rows.
func memberNameCells(table *html.Node) []*html.Node {
	return dom.Select(table, `tr[class^="memitem"] > td.memItemRight`).Nodes
}

func memberRows(table *html.Node) []*html.Node {
	return dom.Select(table, `tr[class^="memitem"]`).Nodes
}

// secondChild returns the node following a declaration cell's name link.
func secondChild(n *html.Node) *html.Node {
	if n.FirstChild == nil {
		return nil
	}
	return n.FirstChild.NextSibling
}
