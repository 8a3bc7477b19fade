// Package tracker abstracts the issue tracker behind the bot and
// classifies its failures.
package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// Gateway is the tracker capability consumed by command handlers and the
// ambient detector. Each call maps to one external API request and yields
// exactly one classified outcome; retry policy belongs to the transport.
type Gateway interface {
	// FetchIssue retrieves a single issue by key.
	FetchIssue(ctx context.Context, key string) (*types.Issue, error)
	// FetchIssues runs a search query. When query.SuppressErrors is set,
	// any underlying failure yields an empty result instead of an error.
	FetchIssues(ctx context.Context, query types.Query) ([]types.Issue, error)
	// CreateIssue files a new issue. reporter is a tracker username and
	// may be empty when the requesting user has no identity mapping.
	CreateIssue(ctx context.Context, project, subject, summary, reporter string) (*types.Issue, error)
	// AddComment appends a comment to the issue.
	AddComment(ctx context.Context, key, body string) error
	// SetField writes a single field value on the issue.
	SetField(ctx context.Context, key, fieldID string, value any) error
}

// KeysQuery builds the batched lookup for ambient mentions. Keys come from
// issue-pattern matches and are interpolated bare.
func KeysQuery(keys []string) types.Query {
	return types.Query{
		JQL:            fmt.Sprintf("key in (%s)", strings.Join(keys, ",")),
		SuppressErrors: true,
	}
}

// AssigneeQuery builds the open-issues search behind the myissues command.
func AssigneeQuery(email string) types.Query {
	return types.Query{
		JQL: fmt.Sprintf("assignee = '%s' AND status not in (Closed)", escape(email)),
	}
}

// escape backslash-escapes single quotes inside interpolated JQL values.
func escape(v string) string {
	return strings.ReplaceAll(v, `'`, `\'`)
}
