package collection

import "fmt"

// Action is a user-triggered verb against a single record. Variants carry
// their own typed payload and are dispatched by exhaustive type switch.
type Action interface {
	// Verb is the path segment the backend expects at POST {resource}/{id}/{verb}.
	Verb() string
}

// Download requests a download artifact for the record. The dispatcher saves
// the artifact exactly once per successful dispatch.
type Download struct{}

// Favorite toggles the viewer's favorite mark. Remove unsets it.
type Favorite struct {
	Remove bool
}

// Rate submits a star rating with an optional comment.
type Rate struct {
	Stars   int
	Comment string
}

// Publish toggles a record's published status.
type Publish struct {
	Unpublish bool
}

// Delete removes the record. Destructive: the dispatcher requires explicit
// confirmation before any network call is issued.
type Delete struct{}

func (Download) Verb() string { return "download" }

func (a Favorite) Verb() string {
	if a.Remove {
		return "unfavorite"
	}
	return "favorite"
}

func (Rate) Verb() string { return "rate" }

func (a Publish) Verb() string {
	if a.Unpublish {
		return "unpublish"
	}
	return "publish"
}

func (Delete) Verb() string { return "delete" }

// Payload returns the JSON body an action carries, nil when the verb alone
// is sufficient.
func Payload(act Action) map[string]any {
	switch a := act.(type) {
	case Rate:
		payload := map[string]any{"stars": a.Stars}
		if a.Comment != "" {
			payload["comment"] = a.Comment
		}
		return payload
	case Download, Favorite, Publish, Delete:
		return nil
	}
	return nil
}

// Destructive reports whether the action must pass a confirmation gate.
func Destructive(act Action) bool {
	_, ok := act.(Delete)
	return ok
}

// ConfirmationPrompt builds the user-facing text for a destructive action.
func ConfirmationPrompt(act Action, rec Record) string {
	return fmt.Sprintf("%s %q? This cannot be undone.", act.Verb(), rec.Title())
}
