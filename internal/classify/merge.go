package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// Merge folds the event stream into the current-state snapshot. For each
// event the issue sub-record fields are overlaid first and the pull-request
// fields second, so pull-request values win on key collision; across events
// the latest writer of a field wins. Top-level body keys outside the two
// sub-records feed other components and never reach the snapshot.
func Merge(events []model.RawEvent) model.Snapshot {
	merged := model.Snapshot{}
	for _, ev := range events {
		if issue, ok := subrecord(ev.Body, "issue"); ok {
			overlay(merged, issue)
		}
		if pr, ok := subrecord(ev.Body, "pull_request"); ok {
			overlay(merged, pr)
		}
	}
	return merged
}

func overlay(dst model.Snapshot, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
