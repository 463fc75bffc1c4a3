package reducer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"doxreduce/internal/adapter/dom"
)

// Capitalize title-cases the first rune of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	// Casers keep state, so they are created per call.
	return cases.Title(language.Und).String(string(r)) + cases.Lower(language.Und).String(s[size:])
}

func singlyCapitalize(d *dom.Document) (bool, error) {
	changed := false
	for _, h := range d.Find("h2.groupheader").Nodes {
		text := Capitalize(strings.TrimSpace(dom.TextContent(h)))
		if text == "" || headingSettled(h, text) {
			continue
		}

		var anchors []*html.Node
		for _, c := range dom.Children(h) {
			if c.Type == html.ElementNode && strings.TrimSpace(dom.TextContent(c)) == "" {
				anchors = append(anchors, c)
			}
		}
		dom.RemoveChildren(h)
		for _, a := range anchors {
			h.AppendChild(a)
		}
		h.AppendChild(dom.Text(text))
		changed = true
	}
	return changed, nil
}

// headingSettled reports whether h already holds only empty elements
// followed by text.
func headingSettled(h *html.Node, text string) bool {
	last := h.LastChild
	if last == nil || last.Type != html.TextNode || last.Data != text {
		return false
	}
	for c := h.FirstChild; c != last; c = c.NextSibling {
		if c.Type != html.ElementNode || strings.TrimSpace(dom.TextContent(c)) != "" {
			return false
		}
	}
	return true
}

var referencePageKinds = map[string]bool{
	"File Reference":            true,
	"Struct Reference":          true,
	"Class Reference":           true,
	"Struct Template Reference": true,
	"Class Template Reference":  true,
}

var (
	referentPattern = regexp.MustCompile(`(.*?) `)
	referrerPattern = regexp.MustCompile(`.*? (.*)`)
)

// recreateReferencePageTitle splits "foo.h File Reference" into a referent
// and a sentence-cased referrer.
func recreateReferencePageTitle(d *dom.Document) (bool, error) {
	title := dom.First(d.Root(), "#doc-content > .header .title")
	if title == nil || dom.First(title, "span.vcs-referent") != nil {
		return false, nil
	}

	text := dom.TextContent(title)
	m := referentPattern.FindStringSubmatch(text)
	if m == nil {
		return setPlainTitle(title, Capitalize(text)), nil
	}
	referent := m[1]
	referrer := referrerPattern.FindStringSubmatch(text)[1]
	if !referencePageKinds[referrer] {
		return setPlainTitle(title, Capitalize(referent+" "+referrer)), nil
	}

	dom.RemoveChildren(title)
	title.AppendChild(textSpan("vcs-referent", referent))
	title.AppendChild(dom.Element("span", "vcs-separator"))
	title.AppendChild(textSpan("vcs-referrer", Capitalize(referrer)))
	return true, nil
}

func setPlainTitle(title *html.Node, text string) bool {
	if c := title.FirstChild; c != nil && c == title.LastChild && c.Type == html.TextNode && c.Data == text {
		return false
	}
	dom.SetText(title, text)
	return true
}

func textSpan(class, s string) *html.Node {
	span := dom.Element("span", class)
	if s != "" {
		span.AppendChild(dom.Text(s))
	}
	return span
}
