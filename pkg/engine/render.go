package engine

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Render compiles the template on first use and renders data. In
// keep-position mode the wrapper in the host tree is replaced by the output
// as well. The output is returned in both modes.
func (t *Template) Render(data any) (string, error) {
	var out strings.Builder
	if _, err := t.RenderTo(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// RenderTo is Render writing into w through a pooled buffer. A failure to
// update the host tree in keep-position mode does not affect the output.
func (t *Template) RenderTo(w io.Writer, data any) (int, error) {
	buf := t.cfg.pool.Get()
	defer t.cfg.pool.Put(buf)

	t.write(buf, data)
	t.reapply(buf.String())

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return n, fmt.Errorf("engine: write output: %w", err)
	}
	return n, nil
}

// execute renders without touching the host tree. Nested templates are
// rendered this way.
func (t *Template) execute(data any) string {
	buf := t.cfg.pool.Get()
	defer t.cfg.pool.Put(buf)

	t.write(buf, data)
	return buf.String()
}

func (t *Template) write(buf *bytes.Buffer, data any) {
	t.compile()
	for _, part := range t.parts {
		if part.IsLiteral() {
			buf.WriteString(part.Literal)
			continue
		}
		b := part.Binding
		buf.WriteString(b.Render(b.Resolve(data)))
	}
}

// reapply swaps the wrapper for out. Once the wrapper cannot be tracked any
// more the template stops touching the host tree and only returns output.
func (t *Template) reapply(out string) {
	if t.wrapper == nil {
		return
	}
	next, err := t.wrapper.ReplaceWith(out)
	if err != nil {
		t.wrapper = nil
		t.cfg.logger.Warn("wrapper replacement failed, host tree no longer updated", "error", err)
		return
	}
	if next == nil {
		t.wrapper = nil
		t.cfg.logger.Warn("render output is not a single element, host tree no longer updated")
		return
	}
	t.wrapper = next
	t.cfg.logger.Debug("wrapper replaced", "bytes", len(out))
}
