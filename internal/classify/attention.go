package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// Attention reason strings. These are the full vocabulary the dashboard
// renders; a login absent from the map has no pending attention item.
const (
	ReasonNeedsRebase     = "needs rebase"
	ReasonReleaseNote     = "needs release-note label"
	ReasonFixTests        = "fix tests"
	ReasonAddressComments = "address comments"
	ReasonNeedsReview     = "needs review"

	// stateWaiting marks a person with no pending action; it never appears
	// in the attention map.
	stateWaiting = "waiting"
)

// AuthorState replays the distilled actions for the item author. Any action
// by the author resets the state to waiting; a comment from anyone else flips
// it to "address comments".
func AuthorState(author string, actions []model.Action) string {
	state := stateWaiting
	for _, a := range actions {
		switch {
		case a.Actor == author:
			state = stateWaiting
		case a.IsComment():
			state = ReasonAddressComments
		}
	}
	return state
}

// AssigneeState replays the distilled actions for one assignee. The
// assignee's own actions reset the state to waiting; the author's actions
// reset it to "needs review". When assignee and author are the same login the
// assignee reset wins.
func AssigneeState(assignee, author string, actions []model.Action) string {
	state := ReasonNeedsReview
	for _, a := range actions {
		switch a.Actor {
		case assignee:
			state = stateWaiting
		case author:
			state = ReasonNeedsReview
		}
	}
	return state
}

// Attention assigns each relevant person at most one reason string. The
// author's reasons rank, highest priority last-applied: "needs rebase", then
// the missing release-note label, then the comment/test state machine, then
// failing checks. Assignees get their state machine verdict; when the same
// person is both author and assignee the author verdict is applied after the
// assignee one and takes precedence.
func Attention(actions []model.Action, p model.Payload) map[string]string {
	attn := map[string]string{}
	notify := func(login, reason string) {
		if login != "" {
			attn[login] = reason
		}
	}

	if statusFailing(p.Status) {
		notify(p.Author, ReasonFixTests)
	}

	for _, assignee := range p.Assignees {
		if state := AssigneeState(assignee, p.Author, actions); state != stateWaiting {
			notify(assignee, state)
		}
	}

	if state := AuthorState(p.Author, actions); state != stateWaiting {
		notify(p.Author, state)
	}

	if _, ok := p.Labels[releaseNoteNeededLabel]; ok {
		notify(p.Author, ReasonReleaseNote)
	}
	if p.NeedsRebase {
		notify(p.Author, ReasonNeedsRebase)
	}

	return attn
}

func statusFailing(status map[string]model.CheckStatus) bool {
	for _, check := range status {
		if check.Failing() {
			return true
		}
	}
	return false
}
