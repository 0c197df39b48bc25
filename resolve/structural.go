package resolve

import "regexp"

// sectionQueryPattern extracts an explicit statute reference from a
// question, e.g. "ipc 302" or "Section 420".
var sectionQueryPattern = regexp.MustCompile(`(?i)\b(?:ipc|section)\s*(\d+)`)

// sectionNumber returns the first statute number referenced by the
// question, if any.
func sectionNumber(question string) (string, bool) {
	m := sectionQueryPattern.FindStringSubmatch(question)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// titlePattern builds the pattern matching fragment titles for one
// statute number. Anchored on word boundaries so "Section 30" does not
// match "Section 302".
func titlePattern(section string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\b)(?:Section|IPC)\s*` + regexp.QuoteMeta(section) + `(?:\b|$)`)
}
