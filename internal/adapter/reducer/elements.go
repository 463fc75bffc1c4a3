package reducer

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"doxreduce/internal/adapter/dom"
)

func standardizeCodeElements(d *dom.Document) (bool, error) {
	changed := false
	for _, n := range d.Find("div.fragment").Nodes {
		dom.Rename(n, "pre")
		changed = true
	}
	for _, n := range d.Find("pre.fragment > div.line").Nodes {
		dom.Rename(n, "code")
		changed = true
	}
	return changed, nil
}

var scopeQualifier = regexp.MustCompile(`.*?::`)

// simplifyEnumDeclarations turns "Color::Red" into "Red" in declaration links.
func simplifyEnumDeclarations(d *dom.Document) (bool, error) {
	changed := false
	for _, a := range d.Find(`table.memberdecls tr[class^="memitem"] > td.memItemRight > a`).Nodes {
		s, ok := dom.LeafText(a)
		if !ok {
			continue
		}
		if simple := scopeQualifier.ReplaceAllString(s, ""); simple != s {
			dom.SetLeafText(a, simple)
			changed = true
		}
	}
	return changed, nil
}

var unwantedLabels = map[string]bool{
	"strong":  true,
	"virtual": true,
}

func removeUnwantedElements(d *dom.Document) (bool, error) {
	changed := false

	for _, label := range d.Find(".memproto > table.mlabels .mlabels-right .mlabel").Nodes {
		if s, ok := dom.LeafText(label); ok && unwantedLabels[s] {
			dom.Detach(label)
			changed = true
		}
	}

	for _, table := range FunctionDeclTables(d.Root()) {
		for _, cell := range memberNameCells(table) {
			params := secondChild(cell)
			if params == nil || params.Type != html.TextNode {
				continue
			}
			if s := strings.ReplaceAll(params.Data, "(void)", "()"); s != params.Data {
				params.Data = s
				changed = true
			}
		}
	}

	for _, n := range d.Find(".paramtype").Nodes {
		if s, ok := dom.LeafText(n); ok && s == "void" {
			dom.SetLeafText(n, "")
			changed = true
		}
	}

	return changed, nil
}
