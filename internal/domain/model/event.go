package model

import "fmt"

// RawEvent is a single lifecycle notification for an issue or pull request,
// as handed over by the ingestion collaborator. Kind identifies the
// notification type ("issues", "pull_request", "issue_comment", ...); Body is
// the decoded wire payload, whose shape depends on Kind. Events for one item
// form a chronological sequence and their order is significant.
type RawEvent struct {
	Kind string
	Body map[string]any
}

// Comment is a surviving (non-deleted) comment on an item.
type Comment struct {
	Author    string
	Text      string
	Timestamp string
}

// Action is one distilled semantic action derived from the raw stream.
// Class is "comment", "push", or "label <name>"; Actor is the login that
// performed it.
type Action struct {
	Class string
	Actor string
}

// IsComment reports whether the action is a comment.
func (a Action) IsComment() bool {
	return a.Class == "comment"
}

// ItemRef identifies one issue or pull request within a repository.
type ItemRef struct {
	Repo   string // "owner/name"
	Number int
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s#%d", r.Repo, r.Number)
}
