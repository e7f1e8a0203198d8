package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// Distill reduces the raw stream to its semantic actions. Comment events
// replay by identifier exactly as in Comments, except that comments from
// automation accounts are dropped entirely. Pull-request "synchronize"
// actions become pushes and "labeled"/"unlabeled" actions become label
// changes.
//
// The output places all surviving comments first, in identifier-insertion
// order, followed by the structural actions in chronological order. The
// supported event sources emit structural actions after the comments they
// relate to, so this matches true chronology there; streams interleaved the
// other way around are not reordered back.
func (c *Classifier) Distill(events []model.RawEvent) []model.Action {
	comments := newReplay[model.Action]()
	var structural []model.Action

	for _, ev := range events {
		if rec, ok := commentFacet(ev.Body); ok {
			actor := rec.author
			if actor == "" {
				actor = rec.sender
			}
			if c.isAutomation(actor) {
				continue
			}
			switch rec.action {
			case "created", "edited":
				comments.set(rec.id, model.Action{Class: "comment", Actor: actor})
			case "deleted":
				comments.remove(rec.id)
			}
			continue
		}

		if ev.Kind != "pull_request" {
			continue
		}
		sender := loginField(ev.Body, "sender")
		switch stringField(ev.Body, "action") {
		case "synchronize":
			structural = append(structural, model.Action{Class: "push", Actor: sender})
		case "labeled", "unlabeled":
			if name, _, ok := labelRecord(ev.Body["label"]); ok {
				structural = append(structural, model.Action{Class: "label " + name, Actor: sender})
			}
		}
	}

	return append(comments.surviving(), structural...)
}
