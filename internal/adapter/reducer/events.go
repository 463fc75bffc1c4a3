package reducer

import (
	"strings"

	"golang.org/x/net/html"

	"doxreduce/internal/adapter/dom"
)

// eventSpecializer moves variables declared as marker<T> out of the
// Variables sections into dedicated Events sections.
type eventSpecializer struct {
	marker string
}

func (e eventSpecializer) apply(d *dom.Document) (bool, error) {
	root := d.Root()

	variables := DeclTable(root, "Variables")
	if variables == nil {
		return false, nil
	}

	var rows []*html.Node
	for _, row := range memberRows(variables) {
		left := dom.First(row, "td.memItemLeft")
		if left != nil && strings.HasPrefix(strings.TrimSpace(dom.TextContent(left)), e.prefix()) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return false, nil
	}

	events, body := declTable("Events")
	dom.InsertAfter(variables, events)
	for _, row := range rows {
		companions := companionRows(row)
		dom.Append(body, row)
		for _, c := range companions {
			dom.Append(body, c)
		}
		for _, left := range dom.Select(row, ".memItemLeft").Nodes {
			e.strip(left)
		}
	}
	if len(memberRows(variables)) == 0 {
		dom.Detach(variables)
	}

	return true, e.relocateDocs(root)
}

func (e eventSpecializer) relocateDocs(root *html.Node) error {
	var items []*html.Node
	for _, item := range dom.Select(root, "#doc-content div.memitem").Nodes {
		name := dom.First(item, "span.memname, td.memname")
		if name != nil && e.strip(name) {
			items = append(items, item)
		}
	}

	var heading *html.Node
	for _, h := range dom.Select(root, "#doc-content h2.groupheader").Nodes {
		if strings.EqualFold(strings.TrimSpace(dom.TextContent(h)), "Variable documentation") {
			heading = h
			break
		}
	}
	if heading == nil {
		return nil
	}

	eventsHeading := textElement("h2", "groupheader", "Event documentation")
	dom.InsertBefore(heading, eventsHeading)

	last := eventsHeading
	for _, item := range items {
		title := dom.PrevElementSibling(item)
		if !dom.IsElement(title, "h2") {
			return structural(PassSpecializeEventDocumentation, "event documentation block is not preceded by an <h2> title")
		}
		anchor := dom.PrevElementSibling(title)
		if !dom.IsElement(anchor, "a") {
			return structural(PassSpecializeEventDocumentation, "event documentation title is not preceded by an <a> anchor")
		}
		for _, n := range []*html.Node{anchor, title, item} {
			dom.InsertAfter(last, n)
			last = n
		}
	}

	if !dom.IsElement(dom.NextElementSibling(heading), "a") {
		dom.Detach(heading)
	}
	return nil
}

func (e eventSpecializer) prefix() string {
	return e.marker + "<"
}

// strip removes the marker from the children of n and reports whether any
// child carried it. A linked marker is dropped when the text after it opens
// the template argument list.
func (e eventSpecializer) strip(n *html.Node) bool {
	found := false
	for _, c := range dom.Children(n) {
		s, ok := dom.LeafText(c)
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(s), e.prefix()) {
			dom.SetLeafText(c, strings.ReplaceAll(s, e.prefix(), "<"))
			found = true
			continue
		}
		if c.Type == html.ElementNode && strings.TrimSpace(s) == e.marker {
			if next := c.NextSibling; next != nil && next.Type == html.TextNode && strings.HasPrefix(next.Data, "<") {
				dom.Detach(c)
				found = true
			}
		}
	}
	return found
}

// companionRows returns the memdesc and separator rows that follow a
// declaration row and share its id.
func companionRows(row *html.Node) []*html.Node {
	id, ok := strings.CutPrefix(dom.FirstClass(row), "memitem:")
	if !ok || id == "" {
		return nil
	}
	var out []*html.Node
	for s := dom.NextElementSibling(row); s != nil; s = dom.NextElementSibling(s) {
		class := dom.FirstClass(s)
		if class != "memdesc:"+id && class != "separator:"+id {
			break
		}
		out = append(out, s)
	}
	return out
}

// declTable builds an empty member declaration table with a group header.
func declTable(heading string) (table, body *html.Node) {
	table = dom.Element("table", "memberdecls")
	body = dom.Element("tbody", "")
	row := dom.Element("tr", "heading")
	cell := dom.Element("td", "")
	dom.SetAttr(cell, "colspan", "2")

	cell.AppendChild(textElement("h2", "groupheader", heading))
	row.AppendChild(cell)
	body.AppendChild(row)
	table.AppendChild(body)
	return table, body
}

func textElement(tag, class, text string) *html.Node {
	n := dom.Element(tag, class)
	n.AppendChild(dom.Text(text))
	return n
}
