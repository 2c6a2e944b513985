package engine_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tie/pkg/engine"
	"github.com/goliatone/go-tie/pkg/markup/htmldom"
	"github.com/goliatone/go-tie/pkg/resolve"
)

func loadDoc(t *testing.T) *htmldom.Document {
	t.Helper()

	f, err := os.Open("testdata/fixtures.html")
	if err != nil {
		t.Fatalf("open fixtures: %v", err)
	}
	defer f.Close()

	doc, err := htmldom.Parse(f)
	if err != nil {
		t.Fatalf("parse fixtures: %v", err)
	}
	return doc
}

func newTemplate(t *testing.T, selector string, options ...engine.Option) *engine.Template {
	t.Helper()

	tmpl, err := engine.New(loadDoc(t), selector, options...)
	if err != nil {
		t.Fatalf("new template %s: %v", selector, err)
	}
	return tmpl
}

func mustRender(t *testing.T, tmpl *engine.Template, data any) string {
	t.Helper()

	out, err := tmpl.Render(data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBindHTML(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))

	got := mustRender(t, tmpl, map[string]any{"name": "Peter"})
	want := `<div id="simple">Hello, <span>Peter</span>!</div>`
	if got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindText(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindText("span", resolve.Prop("name")))

	got := mustRender(t, tmpl, map[string]any{"name": "<i>Peter</i>"})
	want := `<div id="simple">Hello, <span>&lt;i&gt;Peter&lt;/i&gt;</span>!</div>`
	if got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindCallback(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Func(func(data any) any {
		return strings.ToUpper(data.(map[string]any)["name"].(string))
	})))

	got := mustRender(t, tmpl, map[string]any{"name": "Peter"})
	if want := `<div id="simple">Hello, <span>PETER</span>!</div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindStructData(t *testing.T) {
	type person struct {
		Name string `tie:"name"`
	}
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindText("span", resolve.Prop("name")))

	got := mustRender(t, tmpl, &person{Name: "Ann & Bob"})
	if want := `<div id="simple">Hello, <span>Ann &amp; Bob</span>!</div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestMissingPropertyRendersEmpty(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))

	got := mustRender(t, tmpl, map[string]any{})
	if want := `<div id="simple">Hello, <span></span>!</div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindAttr(t *testing.T) {
	tmpl := newTemplate(t, "#attribute")
	must(t, tmpl.BindAttr("img", "alt", resolve.Prop("altText")))

	got := mustRender(t, tmpl, map[string]any{"altText": "alternative text here"})
	if want := `<div id="attribute"><img alt="alternative text here"></div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}

	got = mustRender(t, tmpl, map[string]any{"altText": `test " escaping <>`})
	if want := `<div id="attribute"><img alt="test &quot; escaping &lt;&gt;"></div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindAttrRequiresName(t *testing.T) {
	tmpl := newTemplate(t, "#attribute")
	err := tmpl.BindAttr("img", "", resolve.Prop("altText"))
	if !errors.Is(err, engine.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestBindClass(t *testing.T) {
	tmpl := newTemplate(t, "#addClass")
	must(t, tmpl.BindClass(".item", resolve.Prop("moreClasses")))

	got := mustRender(t, tmpl, map[string]any{"moreClasses": "foo bar"})
	if want := `<div id="addClass"><span class="item foo bar"></span></div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}

	got = mustRender(t, tmpl, map[string]any{"moreClasses": []string{"this", "that"}})
	if want := `<div id="addClass"><span class="item this that"></span></div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindClassWithoutExistingAttribute(t *testing.T) {
	tmpl := newTemplate(t, "#plainClass")
	must(t, tmpl.BindClass("span", resolve.Prop("classes")))

	got := mustRender(t, tmpl, map[string]any{"classes": []any{"a", 1}})
	if want := `<div id="plainClass"><span class="a 1"></span></div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindMultipleLocations(t *testing.T) {
	tmpl := newTemplate(t, "#many")
	must(t, tmpl.BindText(".name", resolve.Prop("name")))

	got := mustRender(t, tmpl, map[string]any{"name": "Kim"})
	want := `<div id="many"><b class="name">Kim</b> and <b class="name">Kim</b></div>`
	if got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindRootWithEmptySelector(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindAttr("", "title", resolve.Prop("title")))

	got := mustRender(t, tmpl, map[string]any{"title": "greeting"})
	if want := `<div id="simple" title="greeting">Hello, <span></span>!</div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestBindWithoutMatchIsInert(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML(".missing", resolve.Prop("name")))

	got := mustRender(t, tmpl, map[string]any{"name": "Peter"})
	if want := `<div id="simple">Hello, <span></span>!</div>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
	if n := len(tmpl.Bindings()); n != 1 {
		t.Fatalf("inert binding must still be registered, got %d bindings", n)
	}
}

func TestBindSafeHTML(t *testing.T) {
	tmpl := newTemplate(t, "#unsafe")
	must(t, tmpl.BindSafeHTML(".body", resolve.Prop("body")))

	got := mustRender(t, tmpl, map[string]any{"body": `<p>ok</p><script>alert(1)</script>`})
	if strings.Contains(got, "<script") {
		t.Fatalf("script survived sanitizing: %s", got)
	}
	if !strings.Contains(got, `<div class="body"><p>ok</p>`) {
		t.Fatalf("expected sanitized markup inside the location: %s", got)
	}
}

func TestMarkerSkipsLiteralCollisions(t *testing.T) {
	tmpl := newTemplate(t, "#collision")
	must(t, tmpl.BindText("em", resolve.Prop("word")))

	if got := tmpl.Bindings()[0].Marker(); got != "✂1001⚑" {
		t.Fatalf("expected marker to skip literal text, got %q", got)
	}

	got := mustRender(t, tmpl, map[string]any{"word": "safe"})
	if want := `<p id="collision">✂1000⚑ <em>safe</em></p>`; got != want {
		t.Fatalf("render mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestMarkersAreUnique(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Prop("a")))
	must(t, tmpl.BindAttr("span", "title", resolve.Prop("b")))
	must(t, tmpl.BindClass("", resolve.Prop("c")))

	seen := map[string]bool{}
	for _, b := range tmpl.Bindings() {
		if seen[b.Marker()] {
			t.Fatalf("marker %q reused", b.Marker())
		}
		seen[b.Marker()] = true
	}
}

func TestWithMarkerStart(t *testing.T) {
	tmpl := newTemplate(t, "#simple", engine.WithMarkerStart(7))
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))

	if got := tmpl.Markup(); got != `<div id="simple">Hello, <span>✂7⚑</span>!</div>` {
		t.Fatalf("unexpected captured markup: %s", got)
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))

	if tmpl.Compiled() {
		t.Fatalf("template must compile lazily")
	}
	first := describe(tmpl.Parts())
	second := describe(tmpl.Parts())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("parts changed between compilations (-first +second):\n%s", diff)
	}

	want := []string{`<div id="simple">Hello, <span>`, "html:✂1000⚑", `</span>!</div>`}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("parts mismatch (-want +got):\n%s", diff)
	}

	a := mustRender(t, tmpl, map[string]any{"name": "x"})
	b := mustRender(t, tmpl, map[string]any{"name": "x"})
	if a != b {
		t.Fatalf("renders diverged: %q vs %q", a, b)
	}
}

func TestPartsReconstructMarkup(t *testing.T) {
	tmpl := newTemplate(t, "#many")
	must(t, tmpl.BindText(".name", resolve.Prop("name")))
	must(t, tmpl.BindAttr("b", "title", resolve.Prop("title")))

	var b strings.Builder
	for _, part := range tmpl.Parts() {
		if part.IsLiteral() {
			b.WriteString(part.Literal)
			continue
		}
		b.WriteString(part.Binding.Marker())
	}
	if got := b.String(); got != tmpl.Markup() {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", got, tmpl.Markup())
	}
}

func TestRegisterAfterRenderFails(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))
	mustRender(t, tmpl, nil)

	if err := tmpl.BindText("span", nil); !errors.Is(err, engine.ErrCompiled) {
		t.Fatalf("expected ErrCompiled, got %v", err)
	}
	if _, err := tmpl.Loop("span", nil); !errors.Is(err, engine.ErrCompiled) {
		t.Fatalf("expected ErrCompiled from Loop, got %v", err)
	}
}

func TestRenderTo(t *testing.T) {
	tmpl := newTemplate(t, "#simple")
	must(t, tmpl.BindHTML("span", nil))

	var buf bytes.Buffer
	n, err := tmpl.RenderTo(&buf, "world")
	if err != nil {
		t.Fatalf("render to: %v", err)
	}
	want := `<div id="simple">Hello, <span>world</span>!</div>`
	if buf.String() != want || n != len(want) {
		t.Fatalf("unexpected output %q (%d bytes)", buf.String(), n)
	}
}

func TestLoggerReceivesDebugRecords(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tmpl := newTemplate(t, "#simple", engine.WithLogger(logger))
	must(t, tmpl.BindHTML("span", resolve.Prop("name")))
	mustRender(t, tmpl, nil)

	for _, msg := range []string{"template created", "binding registered", "template compiled"} {
		if !strings.Contains(logs.String(), msg) {
			t.Fatalf("expected %q in logs:\n%s", msg, logs.String())
		}
	}
}

func describe(parts []engine.Part) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part.IsLiteral() {
			out = append(out, part.Literal)
			continue
		}
		out = append(out, part.Binding.Kind().String()+":"+part.Binding.Marker())
	}
	return out
}
