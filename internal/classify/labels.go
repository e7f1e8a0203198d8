package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// Labels derives the current label set (name to display color) from the
// stream. An issue sub-record carrying a label listing is authoritative: it
// replaces the whole set, discarding all prior incremental edits. Later
// labeled/unlabeled pull-request actions mutate the set in place; adding a
// present label is idempotent and removing an absent one is a no-op.
func Labels(events []model.RawEvent) map[string]string {
	labels := map[string]string{}
	for _, ev := range events {
		if issue, ok := subrecord(ev.Body, "issue"); ok {
			if listing, ok := issue["labels"].([]any); ok {
				labels = map[string]string{}
				for _, entry := range listing {
					if name, color, ok := labelRecord(entry); ok {
						labels[name] = color
					}
				}
				continue
			}
		}
		if ev.Kind != "pull_request" {
			continue
		}
		name, color, ok := labelRecord(ev.Body["label"])
		if !ok {
			continue
		}
		switch stringField(ev.Body, "action") {
		case "labeled":
			labels[name] = color
		case "unlabeled":
			delete(labels, name)
		}
	}
	return labels
}
