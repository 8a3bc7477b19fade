// Package format renders issues into chat reply text.
package format

import (
	"fmt"
	"strings"

	"github.com/newrelic-forks/lita-jira/internal/config"
	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// Formatter renders issues per the configured verbosity. Issue lists are
// always rendered one concise line per issue.
type Formatter struct {
	verbose bool
}

// New returns a Formatter for the given format mode, defaulting to verbose
// for any value other than concise.
func New(mode string) *Formatter {
	return &Formatter{verbose: mode != config.FormatConcise}
}

// Summary renders the one-line summary reply: key, summary and browse URL.
func (f *Formatter) Summary(issue *types.Issue) string {
	return fmt.Sprintf("[%s] %s - %s", issue.Key, issue.Summary, issue.URL)
}

// Issue renders a single issue, multi-line when verbose.
func (f *Formatter) Issue(issue *types.Issue) string {
	if !f.verbose {
		return f.concise(issue)
	}
	return fmt.Sprintf("[%s] %s\nStatus: %s, assigned to: %s, priority: %s\n%s",
		issue.Key, issue.Summary, issue.Status,
		fallback(issue.Assignee, "unassigned"), fallback(issue.Priority, "none"),
		issue.URL)
}

// Issues renders one concise line per issue, joined in fetch order.
func (f *Formatter) Issues(issues []types.Issue) string {
	lines := make([]string, 0, len(issues))
	for i := range issues {
		lines = append(lines, f.concise(&issues[i]))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) concise(issue *types.Issue) string {
	assigned := "unassigned"
	if issue.Assignee != "" {
		assigned = "assigned to " + issue.Assignee
	}
	return fmt.Sprintf("[%s] %s (%s, %s) %s",
		issue.Key, issue.Summary, issue.Status, assigned, issue.URL)
}

func fallback(value, absent string) string {
	if value == "" {
		return absent
	}
	return value
}
