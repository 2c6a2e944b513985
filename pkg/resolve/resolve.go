// Package resolve maps a data object to the value a binding renders. A value
// source is either absent (the data object itself), a single-level property
// lookup, or a callback.
package resolve

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"
)

// Source extracts a value from data. The boolean reports whether a value was
// found; when it is false the binding's default is used instead. A nil Source
// passes data through unchanged.
type Source func(data any) (any, bool)

// Prop looks up a single property by name. An empty name is the identity
// source.
func Prop(name string) Source {
	if name == "" {
		return nil
	}
	return func(data any) (any, bool) {
		return Lookup(data, name)
	}
}

// Func wraps a callback. Callbacks always count as a hit.
func Func(fn func(data any) any) Source {
	if fn == nil {
		return nil
	}
	return func(data any) (any, bool) {
		return fn(data), true
	}
}

// Value resolves src against data, falling back to def on a miss.
func Value(data any, src Source, def any) any {
	if src == nil {
		return data
	}
	if v, ok := src(data); ok {
		return v
	}
	return def
}

// Lookup returns the named own property of data. Maps with string keys are
// indexed directly; structs match an exported, non-embedded field whose tie
// tag, json tag or Go name equals name. Pointers and interfaces are followed.
// Nested paths are not traversed.
func Lookup(data any, name string) (any, bool) {
	switch m := data.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		keyType := v.Type().Key()
		if keyType.Kind() != reflect.String {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(name).Convert(keyType))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		if idx, ok := fieldIndex(v.Type(), name); ok {
			return v.Field(idx).Interface(), true
		}
	}
	return nil, false
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if fieldName(f) == name {
			return i, true
		}
	}
	return 0, false
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"tie", "json"} {
		tag, ok := f.Tag.Lookup(key)
		if !ok {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")
		if tagName == "-" {
			return ""
		}
		if tagName != "" {
			return tagName
		}
	}
	return f.Name
}

// Stringify converts a resolved value to its string form. Nil values,
// including typed nil pointers, become the empty string.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		if isNil(v) {
			return ""
		}
		return s.String()
	}
	if isNil(v) {
		return ""
	}
	return fmt.Sprint(v)
}

// Sequence returns the elements of a slice or array value. Nil yields an
// empty sequence; any other value reports false.
func Sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, true
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// Truthy applies text/template truth rules: false, zero numbers, nil, and
// empty strings, slices and maps are false.
func Truthy(v any) bool {
	truth, ok := template.IsTrue(v)
	return ok && truth
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
