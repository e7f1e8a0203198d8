// Package classify reduces the lifecycle event stream of a single issue or
// pull request into a consolidated snapshot and a per-person attention
// verdict. Every function here is a pure reduction over the ordered event
// sequence: replaying the same sequence always yields an identical result,
// which downstream consumers rely on for caching and diffing.
package classify

import (
	"errors"
	"regexp"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// ErrCannotClassify reports an event stream that never carried an issue or
// pull-request sub-record, leaving the subject kind undecidable.
var ErrCannotClassify = errors.New("cannot classify: no issue or pull_request sub-record observed")

// DefaultAutomationAccounts are the robot logins whose comments are excluded
// from distillation so automation chatter never flips a human's attention
// state.
var DefaultAutomationAccounts = []string{"k8s-bot", "k8s-ci-robot", "k8s-merge-robot"}

// DefaultXRefHost is the host whose build-report links are extracted as
// cross-references.
const DefaultXRefHost = "k8s-gubernator.appspot.com"

const (
	needsRebaseLabel       = "needs-rebase"
	releaseNoteNeededLabel = "release-note-label-needed"
)

// Classifier holds the classification knobs: the automation accounts to
// filter and the build-report host to extract cross-references for. The zero
// value is not usable; construct with New or Default.
type Classifier struct {
	bots   map[string]struct{}
	xrefRE *regexp.Regexp
}

// New returns a Classifier that filters the given automation accounts and
// extracts cross-references pointing at xrefHost.
func New(automationAccounts []string, xrefHost string) *Classifier {
	bots := make(map[string]struct{}, len(automationAccounts))
	for _, login := range automationAccounts {
		bots[login] = struct{}{}
	}
	return &Classifier{
		bots: bots,
		// A report link looks like <host>/build/<path>/ where <path> ends in
		// a numeric build id. The character class keeps loose markdown
		// punctuation ("]", ")") and whitespace out of the captured path.
		xrefRE: regexp.MustCompile(regexp.QuoteMeta(xrefHost) + `/build(/[^]\s)]+/\d+)`),
	}
}

// Default returns a Classifier with the stock automation accounts and
// build-report host.
func Default() *Classifier {
	return New(DefaultAutomationAccounts, DefaultXRefHost)
}

func (c *Classifier) isAutomation(login string) bool {
	_, ok := c.bots[login]
	return ok
}

// Classify runs the full reduction over the event stream and assembles the
// result record. status is the opaque check-name to field-tuple map supplied
// by the status collaborator; nil is treated as empty. The only failure mode
// is a stream that never identifies the subject as an issue or pull request,
// reported as ErrCannotClassify.
func (c *Classifier) Classify(events []model.RawEvent, status map[string]model.CheckStatus) (*model.Result, error) {
	var sawIssue, sawPullRequest bool
	for _, ev := range events {
		if _, ok := subrecord(ev.Body, "issue"); ok {
			sawIssue = true
		}
		if _, ok := subrecord(ev.Body, "pull_request"); ok {
			sawPullRequest = true
		}
	}
	if !sawIssue && !sawPullRequest {
		return nil, ErrCannotClassify
	}

	merged := Merge(events)
	labels := Labels(events)
	comments := Comments(events)
	actions := c.Distill(events)

	if status == nil {
		status = map[string]model.CheckStatus{}
	}

	_, needsRebase := labels[needsRebaseLabel]
	payload := model.Payload{
		Author:      merged.Author(),
		Assignees:   merged.Assignees(),
		Title:       merged.Title(),
		Labels:      labels,
		Head:        merged.HeadSHA(),
		NeedsRebase: needsRebase,
		Status:      status,
		XRefs:       c.XRefs(comments, merged.Body()),
	}
	if n, ok := merged.Additions(); ok {
		payload.Additions = &n
	}
	if n, ok := merged.Deletions(); ok {
		payload.Deletions = &n
	}
	payload.Attention = Attention(actions, payload)

	return &model.Result{
		IsPullRequest: sawPullRequest,
		IsOpen:        merged.State() == "open",
		Involved:      involved(payload.Author, payload.Assignees),
		Payload:       payload,
	}, nil
}

// involved lists the author first, then the assignees, first-seen
// de-duplicated.
func involved(author string, assignees []string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	add := func(login string) {
		if login == "" {
			return
		}
		if _, dup := seen[login]; dup {
			return
		}
		seen[login] = struct{}{}
		out = append(out, login)
	}
	add(author)
	for _, assignee := range assignees {
		add(assignee)
	}
	return out
}
