package reducer

import (
	"strings"

	"golang.org/x/net/html"

	"doxreduce/internal/adapter/dom"
)

// betterizeMemnames replaces each prototype table with a flat span:
// return type, name, then the parenthesized parameter list.
func betterizeMemnames(d *dom.Document) (bool, error) {
	changed := false
	for _, table := range d.Find("table.memname").Nodes {
		if dom.FirstClass(table.Parent) != "memproto" {
			continue
		}
		sig, err := buildSignature(table)
		if err != nil {
			return false, err
		}
		dom.InsertBefore(table, sig)
		dom.Detach(table)
		changed = true
	}
	return changed, nil
}

func buildSignature(table *html.Node) (*html.Node, error) {
	types := dom.Select(table, ".paramtype").Nodes
	names := dom.Select(table, ".paramname").Nodes
	if len(types) == 0 && blank(names) {
		// "()" is emitted as a lone empty name cell.
		names = nil
	}
	if len(types) != len(names) {
		return nil, structural(PassBetterizeMemnames, "%d parameter types but %d parameter names", len(types), len(names))
	}

	cell := dom.First(table, ".memname")
	if cell == nil {
		return nil, structural(PassBetterizeMemnames, "prototype has no .memname cell")
	}

	sig := dom.Element("span", "memname")
	if err := appendMemberName(sig, cell, dom.First(table, ".memname > a")); err != nil {
		return nil, err
	}

	if len(types) == 0 && !hasParameterList(table) {
		return sig, nil
	}

	sig.AppendChild(dom.Text("("))
	first := true
	for i := range types {
		typ, typeText := paramType(types[i])
		name := strings.TrimSpace(dom.TextContent(names[i]))
		if typeText == "" && name == "" {
			continue
		}
		if !first {
			sig.AppendChild(dom.Text(" "))
		}
		first = false

		sig.AppendChild(typ)
		if name != "" {
			sig.AppendChild(dom.Text(" "))
			sig.AppendChild(textSpan("vcs-param-name", name))
		}
	}
	sig.AppendChild(dom.Text(")"))

	return sig, nil
}

func appendMemberName(sig, cell, link *html.Node) error {
	text := strings.TrimSpace(dom.TextContent(cell))

	if link == nil {
		ret, name := "", text
		if i := strings.LastIndex(text, " "); i >= 0 {
			ret, name = text[:i], text[i+1:]
		}
		sig.AppendChild(textSpan("vcs-member-return", ret))
		sig.AppendChild(textSpan("vcs-member-name", name))
		return nil
	}

	linkText := dom.TextContent(link)
	before, after, found := strings.Cut(text, linkText)
	if linkText == "" || !found {
		return structural(PassBetterizeMemnames, "member link %q not found in %q", linkText, text)
	}
	if before != "" {
		sig.AppendChild(dom.Text(before))
	}
	dom.Append(sig, link)
	if after != "" {
		sig.AppendChild(dom.Text(after))
	}
	return nil
}

// hasParameterList reports whether the prototype declares a function, as
// opposed to a variable.
func hasParameterList(table *html.Node) bool {
	for _, td := range dom.Select(table, "td").Nodes {
		if strings.TrimSpace(dom.TextContent(td)) == "(" {
			return true
		}
	}
	return false
}

func blank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if strings.TrimSpace(dom.TextContent(n)) != "" {
			return false
		}
	}
	return true
}

// paramType builds the type span of one parameter and returns its trimmed text.
func paramType(cell *html.Node) (*html.Node, string) {
	span := dom.Element("span", "vcs-param-type")
	text := strings.TrimSpace(dom.TextContent(cell))

	if dom.First(cell, "a") == nil {
		if text != "" {
			span.AppendChild(dom.Text(text))
		}
		return span, text
	}

	for _, c := range dom.Children(cell) {
		switch c.Type {
		case html.TextNode:
			span.AppendChild(textSpan("", c.Data))
		case html.ElementNode:
			a := dom.Element("a", "")
			for _, key := range []string{"class", "href"} {
				if v, ok := dom.Attr(c, key); ok {
					dom.SetAttr(a, key, v)
				}
			}
			if s := dom.TextContent(c); s != "" {
				a.AppendChild(dom.Text(s))
			}
			span.AppendChild(a)
		}
	}
	return span, text
}
