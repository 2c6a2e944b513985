// Package marker generates placeholder tokens that are temporarily embedded
// in captured markup to locate binding positions.
package marker

import "strconv"

const (
	// Prefix and Suffix delimit every token. Neither is a markup special
	// character, so tokens survive serialization unescaped.
	Prefix = "✂"
	Suffix = "⚑"

	// DefaultStart is the first counter value a generator tries.
	DefaultStart = 1000
)

// Generator hands out tokens from a strictly increasing counter. A generator
// belongs to a single template; nested templates get their own.
type Generator struct {
	next int
}

// New returns a generator whose first candidate uses start.
func New(start int) *Generator {
	return &Generator{next: start}
}

// Next returns the first candidate token for which taken reports false and
// advances the counter past it. taken is typically a substring check against
// the template's current markup; a nil taken accepts the first candidate.
func (g *Generator) Next(taken func(token string) bool) string {
	for {
		token := Format(g.next)
		g.next++
		if taken == nil || !taken(token) {
			return token
		}
	}
}

// Format renders the token for counter value n.
func Format(n int) string {
	return Prefix + strconv.Itoa(n) + Suffix
}
