package model

// Snapshot is the merged current-state view of an item's attributes, built by
// overlaying issue and pull-request sub-records from the event stream. Fields
// never observed in any event are absent, not defaulted, so the accessors
// below report presence where callers need to distinguish.
type Snapshot map[string]any

// State returns the item state ("open", "closed"), or "" when never observed.
func (s Snapshot) State() string {
	return s.stringField("state")
}

// Title returns the item title, or "" when never observed.
func (s Snapshot) Title() string {
	return s.stringField("title")
}

// Body returns the item description text, or "" when never observed.
func (s Snapshot) Body() string {
	return s.stringField("body")
}

// Author returns the login of the item author (the "user" sub-record), or ""
// when never observed.
func (s Snapshot) Author() string {
	user, ok := s["user"].(map[string]any)
	if !ok {
		return ""
	}
	login, _ := user["login"].(string)
	return login
}

// Assignees returns the assignee logins in listing order. Never nil.
func (s Snapshot) Assignees() []string {
	out := []string{}
	entries, ok := s["assignees"].([]any)
	if !ok {
		return out
	}
	for _, entry := range entries {
		rec, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if login, ok := rec["login"].(string); ok && login != "" {
			out = append(out, login)
		}
	}
	return out
}

// HeadSHA returns the head commit id of a pull request, or "" when never
// observed (issues have no head).
func (s Snapshot) HeadSHA() string {
	head, ok := s["head"].(map[string]any)
	if !ok {
		return ""
	}
	sha, _ := head["sha"].(string)
	return sha
}

// Additions returns the added line count and whether it was ever observed.
func (s Snapshot) Additions() (int, bool) {
	return s.intField("additions")
}

// Deletions returns the removed line count and whether it was ever observed.
func (s Snapshot) Deletions() (int, bool) {
	return s.intField("deletions")
}

func (s Snapshot) stringField(key string) string {
	v, _ := s[key].(string)
	return v
}

// intField tolerates the numeric representations that show up depending on
// whether the body came straight off the wire (float64 from encoding/json) or
// from in-process construction.
func (s Snapshot) intField(key string) (int, bool) {
	switch v := s[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
