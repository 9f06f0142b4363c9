// Package render implements the per-recipient placeholder substitution
// used by the dispatcher. It is a plain token pass, not a template
// language: rendering can never fail a send.
package render

import (
	"sort"
	"strings"

	"github.com/victorydiv/fojournapp-sub001/internal/model"
)

// recognized is the fixed per-recipient token set. These are always
// substituted; an absent context value becomes the empty string.
var recognized = []string{"first_name", "last_name", "email", "username"}

// Render replaces every recognized token and every context key with its
// value. Unrecognized tokens with no context entry are left verbatim.
// Pure and deterministic; safe for concurrent use.
func Render(text string, ctx map[string]string) string {
	out := text
	seen := make(map[string]bool, len(recognized))
	for _, k := range recognized {
		out = strings.ReplaceAll(out, token(k), ctx[k])
		seen[k] = true
	}

	// Campaign-level dynamic payload keys. Sorted so a value that itself
	// contains a token renders the same way every time.
	extra := make([]string, 0, len(ctx))
	for k := range ctx {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = strings.ReplaceAll(out, token(k), ctx[k])
	}
	return out
}

// Context builds the render context for one recipient: user attributes
// merged with the campaign's dynamic payload. Payload keys never shadow
// the recipient's own attributes.
func Context(rc model.DispatchRecipient, payload map[string]string) map[string]string {
	ctx := make(map[string]string, len(payload)+4)
	for k, v := range payload {
		ctx[k] = v
	}
	ctx["first_name"] = rc.FirstName
	ctx["last_name"] = rc.LastName
	ctx["email"] = rc.EmailAddress
	ctx["username"] = rc.Username
	return ctx
}

func token(key string) string {
	return "{{" + key + "}}"
}
