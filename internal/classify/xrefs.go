package classify

import "github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"

// XRefs scans the item body first and then each comment in list order for
// build-report links, returning the extracted report paths first-seen
// de-duplicated. A path referenced in the body and again in a comment appears
// once, at its body position. An empty body and no comments simply yield no
// matches.
func (c *Classifier) XRefs(comments []model.Comment, body string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	collect := func(text string) {
		for _, m := range c.xrefRE.FindAllStringSubmatch(text, -1) {
			path := m[1]
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}

	collect(body)
	for _, comment := range comments {
		collect(comment.Text)
	}
	return out
}
