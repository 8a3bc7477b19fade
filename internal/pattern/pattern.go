// Package pattern defines the chat text patterns the bot recognizes:
// anchored command matchers and the ambient issue-key scanner.
package pattern

import "regexp"

// Fragments, each matching one lexical unit of chat text. Commands are
// composed from these with literal keyword and whitespace glue.
const (
	issueExpr   = `(?P<issue>(?P<project>[A-Z][A-Z0-9]*)-\d+)`
	projectExpr = `(?P<project>[A-Z][A-Z0-9]*)`
	subjectExpr = `"(?P<subject>[^"]+)"`
	summaryExpr = `"(?P<summary>[^"]+)"`
	commentExpr = `(?P<comment>.+)`
	pointsExpr  = `(?P<points>\d+)`
	emailExpr   = `(?P<email>\S+)`
)

// Command matchers, anchored start to end. Keywords are case-sensitive and
// issue/project keys are uppercase. Any given message satisfies at most one
// of these.
var (
	Summary  = regexp.MustCompile(`^jira\s+` + issueExpr + `\s*$`)
	Details  = regexp.MustCompile(`^jira\s+details\s+` + issueExpr + `\s*$`)
	MyIssues = regexp.MustCompile(`^jira\s+myissues\s*$`)
	Comment  = regexp.MustCompile(`^jira\s+comment\s+on\s+` + issueExpr + `\s+` + commentExpr + `$`)
	Todo     = regexp.MustCompile(`^todo\s+` + projectExpr + `\s+` + subjectExpr + `(?:\s+` + summaryExpr + `)?\s*$`)
	Identify = regexp.MustCompile(`^jira\s+identify\s+` + emailExpr + `\s*$`)
	Forget   = regexp.MustCompile(`^jira\s+forget\s*$`)
	Whoami   = regexp.MustCompile(`^jira\s+whoami\s*$`)
	Point    = regexp.MustCompile(`^jira\s+point\s+` + issueExpr + `\s+as\s+` + pointsExpr + `\s*$`)
)

var (
	ambient        = regexp.MustCompile(`\b` + issueExpr + `\b`)
	ambientIssue   = ambient.SubexpIndex("issue")
	ambientProject = ambient.SubexpIndex("project")
)

// Captures matches text against re and returns the named capture groups.
// Optional groups that did not participate map to the empty string.
func Captures(re *regexp.Regexp, text string) (map[string]string, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}
	caps := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" {
			caps[name] = match[i]
		}
	}
	return caps, true
}

// Mention is one bare issue-key occurrence inside an ordinary message.
type Mention struct {
	Key     string
	Project string
}

// Mentions extracts every issue key in text as ordered mentions with
// duplicates removed, keeping the first occurrence of each key.
func Mentions(text string) []Mention {
	var mentions []Mention
	seen := make(map[string]struct{})
	for _, match := range ambient.FindAllStringSubmatch(text, -1) {
		key := match[ambientIssue]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		mentions = append(mentions, Mention{Key: key, Project: match[ambientProject]})
	}
	return mentions
}
