// Package engine compiles a static markup fragment into a reusable template
// and renders it against arbitrary data.
//
// A Template is created from a location in a host tree (New detaches the
// element, NewAt keeps it in place as a wrapper and works on a clone). Each
// Bind call tags its target locations with a unique marker token and
// re-captures the serialized markup. On the first render the captured markup is
// split on those markers into an ordered list of literal text and binding
// references; every later render only walks that list. Loop and If carve a
// sub-tree out into a child Template that is rendered once per element of a
// sequence, or zero or one times for a flag.
//
// Templates are not safe for concurrent registration. Once compiled they can
// be rendered from several goroutines as long as keep-position mode is not
// used and the data is not mutated underneath.
package engine
