package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFragmentRoundTrip(t *testing.T) {
	inputs := []string{
		`<div class="a"><p>x  y</p></div>`,
		`<pre class="fragment">  a` + "\n" + `    b</pre>`,
		`<span>one</span> <span>two</span>`,
	}
	for _, in := range inputs {
		d, err := Parse(in)
		require.NoError(t, err)
		assert.True(t, d.IsFragment())

		out, err := d.Render()
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestParseFullDocument(t *testing.T) {
	in := "<!DOCTYPE html>\n<html><head><title>t</title></head><body><div id=\"doc-content\">x</div></body></html>"
	d, err := Parse(in)
	require.NoError(t, err)
	assert.False(t, d.IsFragment())

	out, err := d.Render()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<div id="doc-content">x</div>`)
	assert.Equal(t, 1, d.Find("#doc-content").Length())
}

func TestParseDocumentAfterProlog(t *testing.T) {
	page := `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "https://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" lang="en"><head><title>VCS: foo.h File Reference</title></head><body class="b"><div id="doc-content">x</div></body></html>`

	tests := []struct {
		name   string
		prolog string
	}{
		{"header comment", "<!-- HTML header for doxygen 1.9.1-->\n"},
		{"byte order mark", "\ufeff"},
		{"xml declaration", `<?xml version="1.0" encoding="UTF-8"?>` + "\n"},
		{"all of them", "\ufeff<?xml version=\"1.0\"?>\n<!-- a -->\n<!-- b -->\n  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.prolog + page)
			require.NoError(t, err)
			assert.False(t, d.IsFragment())

			out, err := d.Render()
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(out, tt.prolog+"<!DOCTYPE html PUBLIC"), out)
			assert.Contains(t, out, `<html xmlns="http://www.w3.org/1999/xhtml" lang="en">`)
			assert.Contains(t, out, "<head><title>VCS: foo.h File Reference</title></head>")
			assert.Contains(t, out, `<body class="b">`)
			assert.Equal(t, 1, d.Find("body > #doc-content").Length())
		})
	}
}

func TestParseFragmentDespiteLookalikes(t *testing.T) {
	inputs := []string{
		`<header class="page">x</header>`,
		`<!-- note --><div class="a">x</div>`,
		"\ufeff<div>x</div>",
		`<!-- unterminated <html>`,
	}
	for _, in := range inputs {
		d, err := Parse(in)
		require.NoError(t, err)
		assert.True(t, d.IsFragment(), in)
	}
}

func TestParseFragmentTableRows(t *testing.T) {
	d, err := Parse(`<table class="memberdecls"><tr class="memitem:abc"><td>x</td></tr></table>`)
	require.NoError(t, err)
	assert.NotNil(t, First(d.Root(), "table.memberdecls > tbody > tr"))
}

func TestLeafText(t *testing.T) {
	d, err := Parse(`<a id="one"><b>x</b></a><a id="two">x<b>y</b></a><a id="three"></a>`)
	require.NoError(t, err)

	s, ok := LeafText(First(d.Root(), "#one"))
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = LeafText(First(d.Root(), "#two"))
	assert.False(t, ok)

	_, ok = LeafText(First(d.Root(), "#three"))
	assert.False(t, ok)

	one := First(d.Root(), "#one")
	assert.True(t, SetLeafText(one, "z"))
	out, err := OuterHTML(one)
	require.NoError(t, err)
	assert.Equal(t, `<a id="one"><b>z</b></a>`, out)
}

func TestReplaceWithHTMLInTableContext(t *testing.T) {
	d, err := Parse(`<table><tbody><tr class="r"><td>a</td></tr></tbody></table>`)
	require.NoError(t, err)

	row := First(d.Root(), "tr.r")
	require.NotNil(t, row)
	require.NoError(t, ReplaceWithHTML(row, `<tr class="s"><td>b</td></tr>`))

	assert.Nil(t, First(d.Root(), "tr.r"))
	assert.NotNil(t, First(d.Root(), "tbody > tr.s > td"))
}

func TestReplaceWithHTMLDetached(t *testing.T) {
	assert.Error(t, ReplaceWithHTML(Element("div", ""), "<p>x</p>"))
}

func TestMoveHelpers(t *testing.T) {
	d, err := Parse(`<div id="p"><a id="x"></a><b id="y"></b><i id="z"></i></div>`)
	require.NoError(t, err)
	root := d.Root()
	x, y, z := First(root, "#x"), First(root, "#y"), First(root, "#z")

	InsertAfter(z, x)
	assert.Equal(t, y, PrevElementSibling(z))
	assert.Equal(t, x, NextElementSibling(z))
	assert.Nil(t, NextElementSibling(x))

	InsertBefore(y, z)
	out, err := d.Render()
	require.NoError(t, err)
	assert.Equal(t, `<div id="p"><i id="z"></i><b id="y"></b><a id="x"></a></div>`, out)

	assert.Equal(t, First(root, "#p"), Closest(x, "div", ""))
	assert.Nil(t, Closest(x, "div", "memproto"))
}
