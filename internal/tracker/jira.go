package tracker

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/newrelic-forks/lita-jira/pkg/types"
)

const maxSearchResults = 50

// Client is the go-jira backed Gateway.
type Client struct {
	client *jira.Client
	logger *zap.Logger
	browse string
}

var _ Gateway = (*Client)(nil)

// NewClient creates a tracker client for the Jira instance at site with an
// optional context path. A non-empty token selects bearer authentication;
// otherwise username and password are sent as basic auth. site and
// contextPath must carry their trailing slashes.
func NewClient(site, contextPath, username, password, token string, logger *zap.Logger) (*Client, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		tp := jira.BasicAuthTransport{
			Username: username,
			Password: password,
		}
		httpClient = tp.Client()
	}

	client, err := jira.NewClient(httpClient, site+contextPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
		browse: site + contextPath + "browse/",
	}, nil
}

// BrowseURL returns the human-facing URL for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.browse + key
}

// FetchIssue retrieves a single issue by key.
func (c *Client) FetchIssue(ctx context.Context, key string) (*types.Issue, error) {
	issue, resp, err := c.client.Issue.GetWithContext(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", classify(resp, err))
	}

	out := c.toIssue(issue)
	return &out, nil
}

// FetchIssues runs a JQL search and returns issues in the tracker's order.
func (c *Client) FetchIssues(ctx context.Context, query types.Query) ([]types.Issue, error) {
	issues, resp, err := c.client.Issue.SearchWithContext(ctx, query.JQL, &jira.SearchOptions{
		MaxResults: maxSearchResults,
	})
	if err != nil {
		if query.SuppressErrors {
			c.logger.Debug("suppressed search failure",
				zap.String("jql", query.JQL), zap.Error(classify(resp, err)))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search issues: %w", classify(resp, err))
	}

	out := make([]types.Issue, 0, len(issues))
	for i := range issues {
		out = append(out, c.toIssue(&issues[i]))
	}
	return out, nil
}

// CreateIssue files a new Task in the given project.
func (c *Client) CreateIssue(ctx context.Context, project, subject, summary, reporter string) (*types.Issue, error) {
	fields := &jira.IssueFields{
		Project:     jira.Project{Key: project},
		Type:        jira.IssueType{Name: "Task"},
		Summary:     subject,
		Description: summary,
	}
	if reporter != "" {
		fields.Reporter = &jira.User{Name: reporter}
	}

	created, resp, err := c.client.Issue.CreateWithContext(ctx, &jira.Issue{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", classify(resp, err))
	}

	return &types.Issue{
		Key:     created.Key,
		Project: project,
		Summary: subject,
		URL:     c.BrowseURL(created.Key),
	}, nil
}

// AddComment appends a comment to the issue.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	_, resp, err := c.client.Issue.AddCommentWithContext(ctx, key, &jira.Comment{
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", classify(resp, err))
	}
	return nil
}

// SetField writes a single field value on the issue, typically a custom
// field such as story points.
func (c *Client) SetField(ctx context.Context, key, fieldID string, value any) error {
	resp, err := c.client.Issue.UpdateIssueWithContext(ctx, key, map[string]any{
		"fields": map[string]any{fieldID: value},
	})
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", classify(resp, err))
	}
	return nil
}

// toIssue converts a Jira issue into the bot's issue snapshot.
func (c *Client) toIssue(issue *jira.Issue) types.Issue {
	out := types.Issue{
		Key: issue.Key,
		URL: c.BrowseURL(issue.Key),
	}

	if project, _, ok := strings.Cut(issue.Key, "-"); ok {
		out.Project = project
	}

	fields := issue.Fields
	if fields == nil {
		return out
	}

	out.Summary = fields.Summary
	out.Description = fields.Description
	if fields.Project.Key != "" {
		out.Project = fields.Project.Key
	}
	if fields.Status != nil {
		out.Status = fields.Status.Name
	}
	if fields.Assignee != nil {
		out.Assignee = fields.Assignee.DisplayName
	}
	if fields.Reporter != nil {
		out.Reporter = fields.Reporter.DisplayName
	}
	if fields.Priority != nil {
		out.Priority = fields.Priority.Name
	}

	return out
}

// classify converts a failed go-jira call into a *Failure.
func classify(resp *jira.Response, err error) *Failure {
	if resp == nil {
		return &Failure{Kind: KindTransport, Reason: err.Error()}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &Failure{Kind: KindNotFound, StatusCode: resp.StatusCode, Reason: err.Error()}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Failure{Kind: KindUnauthorized, StatusCode: resp.StatusCode, Reason: err.Error()}
	default:
		return &Failure{Kind: KindRejected, StatusCode: resp.StatusCode, Reason: err.Error()}
	}
}
