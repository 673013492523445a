// Package sanitize strips unsafe markup from user-supplied text before it is
// stored and re-served.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans one string. The error return exists so implementations
// backed by fallible cleaners can be swapped in; the pipeline treats any
// error as a server fault.
type Sanitizer interface {
	Sanitize(text string) (string, error)
}

// HTML sanitizes with a user-generated-content policy.
type HTML struct {
	policy *bluemonday.Policy
}

func NewHTML() *HTML {
	return &HTML{policy: bluemonday.UGCPolicy()}
}

func (h *HTML) Sanitize(text string) (string, error) {
	out := h.policy.Sanitize(text)
	// The policy escapes a bare ">", which would break markdown quote
	// syntax in stored comments. Put it back.
	out = strings.ReplaceAll(out, "&gt;", ">")
	return out, nil
}
