package collection

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from rich-text draft fields before they
// leave the client.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds a sanitizer with the UGC policy, which keeps the
// formatting tags user-generated descriptions legitimately use.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// SanitizeDraft sanitizes the descriptor's rich-text fields in place.
// Non-string values pass through untouched.
func (s *Sanitizer) SanitizeDraft(desc ResourceDescriptor, fields map[string]any) {
	if s == nil || s.policy == nil || fields == nil {
		return
	}
	for _, key := range desc.RichTextFields {
		raw, ok := fields[key].(string)
		if !ok {
			continue
		}
		fields[key] = strings.TrimSpace(s.policy.Sanitize(raw))
	}
}
