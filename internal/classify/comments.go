package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// Comments derives the current, non-deleted comment list. Created and edited
// actions insert or overwrite the entry for the comment identifier; deleted
// removes it outright rather than tombstoning. An entry whose author, text,
// or timestamp resolved empty is treated as absent. The result keeps
// first-insertion identifier order.
func Comments(events []model.RawEvent) []model.Comment {
	seen := newReplay[model.Comment]()
	for _, ev := range events {
		rec, ok := commentFacet(ev.Body)
		if !ok {
			continue
		}
		switch rec.action {
		case "created", "edited":
			seen.set(rec.id, model.Comment{
				Author:    rec.author,
				Text:      rec.text,
				Timestamp: rec.timestamp,
			})
		case "deleted":
			seen.remove(rec.id)
		}
	}

	out := []model.Comment{}
	for _, c := range seen.surviving() {
		if c.Author == "" || c.Text == "" || c.Timestamp == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
