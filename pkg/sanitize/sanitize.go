// Package sanitize cleans untrusted markup before it is inserted raw into a
// rendered template.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// HTML strips scripts, event handlers and other unsafe constructs from raw
// while keeping ordinary formatting markup.
func HTML(raw string) string {
	if raw == "" {
		return ""
	}
	return Policy().Sanitize(raw)
}

// Policy returns the shared policy used by HTML. It is built once and must
// not be mutated by callers.
func Policy() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
		contentPolicy = policy
	})
	return contentPolicy
}
