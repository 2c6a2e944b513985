// Package manifest describes templates declaratively: which element is the
// template root and which bindings to register on it, in order. Manifests are
// read from JSON or YAML and applied to a markup document with Build.
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tie/pkg/engine"
	"github.com/goliatone/go-tie/pkg/markup"
	"github.com/goliatone/go-tie/pkg/resolve"
)

// Binding kinds understood by Apply.
const (
	KindHTML     = "html"
	KindText     = "text"
	KindSafeHTML = "safeHtml"
	KindAttr     = "attr"
	KindClass    = "class"
	KindLoop     = "loop"
	KindIf       = "if"
)

// Manifest is the file representation of a template.
type Manifest struct {
	Root         string    `json:"root" yaml:"root"`
	KeepPosition bool      `json:"keepPosition" yaml:"keepPosition"`
	Bindings     []Binding `json:"bindings" yaml:"bindings"`

	// Source is the path the manifest was read from, used in errors.
	Source string `json:"-" yaml:"-"`
}

// Binding is one registration. Prop names the data property; an empty Prop
// binds the data object itself. Bindings nest under loop and if entries and
// are registered on the child template.
type Binding struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Selector string    `json:"selector" yaml:"selector"`
	Attr     string    `json:"attr,omitempty" yaml:"attr,omitempty"`
	Prop     string    `json:"prop,omitempty" yaml:"prop,omitempty"`
	Bindings []Binding `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// Property is a top-level data property referenced by a manifest.
type Property struct {
	Name string
	Kind string
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS is Load over a filesystem.
func LoadFS(fsys fs.FS, path string) (*Manifest, error) {
	if fsys == nil {
		return nil, fmt.Errorf("manifest: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data as JSON, falling back to YAML, and validates the result.
func Parse(data []byte, source string) (*Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("manifest: file %s is empty", source)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		m = Manifest{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("manifest: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}
	m.Source = source

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the root and every binding.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Root) == "" {
		return fmt.Errorf("manifest: %s: root selector is required", m.Source)
	}
	return validateBindings(m.Bindings, m.Source, "bindings")
}

func validateBindings(bindings []Binding, source, path string) error {
	for i, b := range bindings {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch b.Kind {
		case KindHTML, KindText, KindSafeHTML, KindClass:
		case KindAttr:
			if strings.TrimSpace(b.Attr) == "" {
				return fmt.Errorf("manifest: %s: %s: attr binding requires an attribute name", source, at)
			}
		case KindLoop, KindIf:
			if strings.TrimSpace(b.Selector) == "" {
				return fmt.Errorf("manifest: %s: %s: %s binding requires a selector", source, at, b.Kind)
			}
			if err := validateBindings(b.Bindings, source, at+".bindings"); err != nil {
				return err
			}
			continue
		default:
			return fmt.Errorf("manifest: %s: %s: unknown binding kind %q", source, at, b.Kind)
		}
		if len(b.Bindings) > 0 {
			return fmt.Errorf("manifest: %s: %s: only loop and if bindings can nest", source, at)
		}
	}
	return nil
}

// Build creates the template described by the manifest from doc and
// registers every binding.
func (m *Manifest) Build(doc markup.Document, options ...engine.Option) (*engine.Template, error) {
	create := engine.New
	if m.KeepPosition {
		create = engine.NewAt
	}
	tmpl, err := create(doc, m.Root, options...)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: create template: %w", m.Source, err)
	}
	if err := Apply(tmpl, m.Bindings); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", m.Source, err)
	}
	return tmpl, nil
}

// Apply registers bindings on tmpl in order, recursing into loop and if
// children.
func Apply(tmpl *engine.Template, bindings []Binding) error {
	for _, b := range bindings {
		src := resolve.Prop(b.Prop)

		var err error
		switch b.Kind {
		case KindHTML:
			err = tmpl.BindHTML(b.Selector, src)
		case KindText:
			err = tmpl.BindText(b.Selector, src)
		case KindSafeHTML:
			err = tmpl.BindSafeHTML(b.Selector, src)
		case KindAttr:
			err = tmpl.BindAttr(b.Selector, b.Attr, src)
		case KindClass:
			err = tmpl.BindClass(b.Selector, src)
		case KindLoop, KindIf:
			nest := tmpl.Loop
			if b.Kind == KindIf {
				nest = tmpl.If
			}
			var child *engine.Template
			child, err = nest(b.Selector, src)
			if err == nil {
				err = Apply(child, b.Bindings)
			}
		default:
			err = fmt.Errorf("unknown binding kind %q", b.Kind)
		}
		if err != nil {
			return fmt.Errorf("bind %s %q: %w", b.Kind, b.Selector, err)
		}
	}
	return nil
}

// Properties lists the distinct properties the manifest reads from the data
// object, in binding order. Bindings under an if entry read the same object
// and are included; bindings under a loop read the loop elements and are not.
func (m *Manifest) Properties() []Property {
	seen := make(map[string]struct{})
	return collectProperties(m.Bindings, seen, nil)
}

func collectProperties(bindings []Binding, seen map[string]struct{}, out []Property) []Property {
	for _, b := range bindings {
		if b.Prop != "" {
			if _, ok := seen[b.Prop]; !ok {
				seen[b.Prop] = struct{}{}
				out = append(out, Property{Name: b.Prop, Kind: b.Kind})
			}
		}
		if b.Kind == KindIf {
			out = collectProperties(b.Bindings, seen, out)
		}
	}
	return out
}
