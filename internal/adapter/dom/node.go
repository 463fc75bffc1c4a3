package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element with an optional class attribute.
func Element(tag, class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	if class != "" {
		SetAttr(n, "class", class)
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Rename changes an element's tag name in place.
func Rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the element's class tokens in order.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// FirstClass returns the element's first class token, or "".
func FirstClass(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	c := Classes(n)
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// TextContent concatenates every text node under n, untrimmed.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// LeafText returns the text of n when n is a text node or an element whose
// only content is a single chain of one-child elements ending in text.
func LeafText(n *html.Node) (string, bool) {
	switch n.Type {
	case html.TextNode:
		return n.Data, true
	case html.ElementNode:
		if n.FirstChild == nil || n.FirstChild != n.LastChild {
			return "", false
		}
		return LeafText(n.FirstChild)
	}
	return "", false
}

// SetLeafText replaces the text reached by LeafText, keeping the elements
// around it.
func SetLeafText(n *html.Node, s string) bool {
	switch n.Type {
	case html.TextNode:
		n.Data = s
		return true
	case html.ElementNode:
		if n.FirstChild == nil || n.FirstChild != n.LastChild {
			return false
		}
		return SetLeafText(n.FirstChild, s)
	}
	return false
}

// SetText replaces all children of n with a single text node.
func SetText(n *html.Node, s string) {
	RemoveChildren(n)
	n.AppendChild(Text(s))
}

func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Children returns a snapshot of n's children.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter inserts n as the next sibling of ref, detaching it first.
func InsertAfter(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// InsertBefore inserts n as the previous sibling of ref, detaching it first.
func InsertBefore(ref, n *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// Append moves n to be the last child of parent.
func Append(parent, n *html.Node) {
	Detach(n)
	parent.AppendChild(n)
}

func PrevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Closest returns the nearest ancestor of n with the given tag and class.
func Closest(n *html.Node, tag, class string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if !IsElement(p, tag) {
			continue
		}
		if class == "" {
			return p
		}
		for _, c := range Classes(p) {
			if c == class {
				return p
			}
		}
	}
	return nil
}

// OuterHTML renders n and its subtree.
func OuterHTML(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReplaceWithHTML parses markup in the context of n's parent and puts the
// resulting nodes where n was.
func ReplaceWithHTML(n *html.Node, markup string) error {
	parent := n.Parent
	if parent == nil {
		return fmt.Errorf("replace <%s>: node is detached", n.Data)
	}
	context := parent
	if parent.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("replace <%s>: %w", n.Data, err)
	}
	for _, c := range nodes {
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
	return nil
}
