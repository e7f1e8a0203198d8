package model

// CheckStatus is the opaque field tuple for one CI check, supplied by the
// status collaborator. By convention the first element is the check state
// ("success", "failure", "pending"); the remaining fields pass through
// untouched.
type CheckStatus []string

// Failing reports whether the check's leading state field is "failure".
func (c CheckStatus) Failing() bool {
	return len(c) > 0 && c[0] == "failure"
}

// Payload is the externally consumed classification payload. Its field names
// are a compatibility surface shared with the dashboard and persistence
// collaborators and must not be renamed.
type Payload struct {
	Author      string                 `json:"author"`
	Assignees   []string               `json:"assignees"`
	Additions   *int                   `json:"additions,omitempty"`
	Deletions   *int                   `json:"deletions,omitempty"`
	Attention   map[string]string      `json:"attn"`
	Title       string                 `json:"title"`
	Labels      map[string]string      `json:"labels"`
	Head        string                 `json:"head,omitempty"`
	NeedsRebase bool                   `json:"needs_rebase"`
	Status      map[string]CheckStatus `json:"status"`
	XRefs       []string               `json:"xrefs"`
}

// Result is the classification outcome for a single item. It is immutable
// once produced; callers persist and diff it, the classifier never mutates a
// previously returned Result.
type Result struct {
	IsPullRequest bool     `json:"is_pull_request"`
	IsOpen        bool     `json:"is_open"`
	Involved      []string `json:"involved"`
	Payload       Payload  `json:"payload"`
}

// ClassifiedItem pairs an item with its stored classification.
type ClassifiedItem struct {
	Item   ItemRef
	Result Result
}

// AttentionItem is one pending attention entry for a login, used by the
// dashboard's "needs my action" filter.
type AttentionItem struct {
	Item   ItemRef
	Reason string
}
