package classify

// Facet extraction for the recognized event-body shapes. A body that matches
// none of these is a guaranteed no-op for every component, which keeps the
// classifier forward compatible with event kinds it has never seen.

func subrecord(body map[string]any, key string) (map[string]any, bool) {
	sub, ok := body[key].(map[string]any)
	return sub, ok
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func loginField(m map[string]any, key string) string {
	user, ok := m[key].(map[string]any)
	if !ok {
		return ""
	}
	return stringField(user, "login")
}

// intField tolerates float64 (encoding/json) alongside native ints.
func intField(m map[string]any, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// commentRecord is the comment facet of an event body: a comment sub-record
// with a stable identifier, plus the surrounding action and sender.
type commentRecord struct {
	id        int64
	action    string
	sender    string
	author    string
	text      string
	timestamp string
}

func commentFacet(body map[string]any) (commentRecord, bool) {
	comment, ok := subrecord(body, "comment")
	if !ok {
		return commentRecord{}, false
	}
	id, ok := intField(comment, "id")
	if !ok {
		return commentRecord{}, false
	}
	return commentRecord{
		id:        id,
		action:    stringField(body, "action"),
		sender:    loginField(body, "sender"),
		author:    loginField(comment, "user"),
		text:      stringField(comment, "body"),
		timestamp: stringField(comment, "created_at"),
	}, true
}

// labelRecord extracts {name, color} from a label sub-record value.
func labelRecord(v any) (name, color string, ok bool) {
	rec, isMap := v.(map[string]any)
	if !isMap {
		return "", "", false
	}
	name = stringField(rec, "name")
	return name, stringField(rec, "color"), name != ""
}

// replay is an identifier-keyed accumulator that remembers first-insertion
// order. Removal drops the identifier entirely, so a later re-insertion lands
// at its new position.
type replay[T any] struct {
	order []int64
	byID  map[int64]T
}

func newReplay[T any]() *replay[T] {
	return &replay[T]{byID: map[int64]T{}}
}

func (r *replay[T]) set(id int64, v T) {
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = v
}

func (r *replay[T]) remove(id int64) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// surviving returns the remaining values in insertion order.
func (r *replay[T]) surviving() []T {
	out := make([]T, 0, len(r.byID))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
