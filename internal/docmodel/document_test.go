package docmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src, pageURL string) *Document {
	t.Helper()
	doc, err := ParseString(src, pageURL)
	require.NoError(t, err)
	return doc
}

func TestQuery_DocumentOrder(t *testing.T) {
	doc := mustParse(t, `<ul><li class="a">one</li><li>two</li><li class="a">three</li></ul>`, "")

	nodes := doc.Query("li.a")
	require.Len(t, nodes, 2)
	assert.Equal(t, "one", nodes[0].Text())
	assert.Equal(t, "three", nodes[1].Text())
}

func TestQuery_InvalidSelectorIsEmpty(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`, "")
	assert.Empty(t, doc.Query("p[[["))
}

func TestQuery_NilDocumentIsEmpty(t *testing.T) {
	var doc *Document
	assert.Empty(t, doc.Query("p"))
	assert.Empty(t, doc.RawText())
	assert.Equal(t, "", doc.Origin())
}

func TestQueryFunc(t *testing.T) {
	doc := mustParse(t, `<div data-k="1"></div><span data-k="2"></span><div></div>`, "")
	nodes := doc.QueryFunc(func(n Node) bool {
		_, ok := n.Attr("data-k")
		return ok
	})
	require.Len(t, nodes, 2)
	assert.Equal(t, "div", nodes[0].Tag())
	assert.Equal(t, "span", nodes[1].Tag())
}

func TestIsVisible(t *testing.T) {
	doc := mustParse(t, `
		<div id="a">shown</div>
		<div id="b" style="display: none">x</div>
		<div data-visible="false"><p id="c">inner</p></div>
		<div hidden><span id="d">x</span></div>
		<div style="visibility:hidden" id="e">x</div>
		<div data-visible="true" id="f">y</div>`, "")

	cases := map[string]bool{"a": true, "b": false, "c": false, "d": false, "e": false, "f": true}
	for id, want := range cases {
		nodes := doc.Query("#" + id)
		require.Len(t, nodes, 1, id)
		assert.Equal(t, want, nodes[0].IsVisible(), id)
	}
	assert.False(t, Node{}.IsVisible())
}

func TestFirstVisible(t *testing.T) {
	doc := mustParse(t, `<ul class="l" hidden><li>1</li></ul><ul class="l"><li>2</li></ul>`, "")
	n, ok := FirstVisible(doc.Query("ul.l"))
	require.True(t, ok)
	assert.Equal(t, "2", n.Text())

	_, ok = FirstVisible(nil)
	assert.False(t, ok)
}

func TestInnerText_Blocks(t *testing.T) {
	doc := mustParse(t, `<body>
		<h1>IUPPS 2024/01/02</h1>
		<div>Company:   <b>Acme</b>
		</div>
		<p style="display:none">secret</p>
		<table><tr><td>Caller:</td> <td>Jane</td></tr></table>
		line<br>break
		<script>var x = 1;</script>
	</body>`, "")

	want := "IUPPS 2024/01/02\nCompany: Acme\nCaller:\tJane\nline\nbreak"
	assert.Equal(t, want, doc.RawText())
}

func TestInnerText_PreservesPre(t *testing.T) {
	doc := mustParse(t, "<pre>Company: Acme\nType:   Normal</pre>", "")
	assert.Equal(t, "Company: Acme\nType: Normal", doc.RawText())
}

func TestOriginAndResolve(t *testing.T) {
	doc := mustParse(t, `<p></p>`, "https://org.lightning.force.com/lightning/r/Case/500/view")
	assert.Equal(t, "https://org.lightning.force.com", doc.Origin())
	assert.Equal(t, "https://org.lightning.force.com/a/b.gml", doc.ResolveURL("/a/b.gml"))
	assert.Equal(t, "https://x.test/y", doc.ResolveURL("https://x.test/y"))
}

func TestFrame_Srcdoc(t *testing.T) {
	doc := mustParse(t, `<iframe id="f" srcdoc="&lt;p&gt;Ticket #: 42&lt;/p&gt;"></iframe>`, "https://h.test/p")
	frames := doc.Query("#f")
	require.Len(t, frames, 1)

	inner := doc.Frame(frames[0])
	require.NotNil(t, inner)
	assert.Equal(t, "Ticket #: 42", inner.RawText())
	assert.Equal(t, "https://h.test", inner.Origin())
}

func TestFrame_InlineContent(t *testing.T) {
	doc := mustParse(t, `<iframe id="f"><table><tr><td>Caller:</td><td>Bob</td></tr></table></iframe>`, "")
	inner := doc.Frame(doc.Query("#f")[0])
	require.NotNil(t, inner)
	assert.Len(t, inner.Query("td"), 2)
}

func TestFrame_Empty(t *testing.T) {
	doc := mustParse(t, `<iframe id="f"></iframe><div id="d"></div>`, "")
	assert.Nil(t, doc.Frame(doc.Query("#f")[0]))
	assert.Nil(t, doc.Frame(doc.Query("#d")[0]))
	assert.Nil(t, doc.Frame(Node{}))
}

func TestRawText_SkipsIframeBody(t *testing.T) {
	doc := mustParse(t, `<body><p>outer</p><iframe><p>inner</p></iframe></body>`, "")
	assert.Equal(t, "outer", doc.RawText())
}
