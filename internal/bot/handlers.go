package bot

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/newrelic-forks/lita-jira/internal/tracker"
	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// Replies for outcomes that carry no issue payload. Gateway failure
// classifications are logged, never exposed to chat.
const (
	errorReply          = "could not complete request"
	notIdentifiedReply  = "you are not identified, use: jira identify <email>"
	noIssuesReply       = "you have no open issues"
	forgottenReply      = "identity forgotten"
	fieldUndefinedReply = "story points field is not configured"
	unableToPointReply  = "unable to point issue"
)

func (b *Bot) summary(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	issue, err := b.gateway.FetchIssue(ctx, caps["issue"])
	if err != nil {
		b.logger.Warn("issue fetch failed", zap.String("key", caps["issue"]), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	return r.Reply(ctx, msg, b.formatter.Summary(issue))
}

func (b *Bot) details(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	issue, err := b.gateway.FetchIssue(ctx, caps["issue"])
	if err != nil {
		b.logger.Warn("issue fetch failed", zap.String("key", caps["issue"]), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	return r.Reply(ctx, msg, b.formatter.Issue(issue))
}

func (b *Bot) comment(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	issue, err := b.gateway.FetchIssue(ctx, caps["issue"])
	if err != nil {
		b.logger.Warn("issue fetch failed", zap.String("key", caps["issue"]), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}

	if err := b.gateway.AddComment(ctx, issue.Key, caps["comment"]); err != nil {
		b.logger.Warn("comment submission failed", zap.String("key", issue.Key), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}

	return r.Reply(ctx, msg, fmt.Sprintf("comment added to %s - %s", issue.Key, issue.URL))
}

func (b *Bot) todo(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	project := b.resolveProject(caps["project"])

	// The reporter is the requester's mapped tracker identity, omitted
	// when they never identified.
	var reporter string
	email, ok, err := b.store.Lookup(ctx, msg.User.ID)
	if err != nil {
		b.logger.Warn("identity lookup failed", zap.String("user", msg.User.ID), zap.Error(err))
	} else if ok {
		reporter = email
	}

	issue, err := b.gateway.CreateIssue(ctx, project, caps["subject"], caps["summary"], reporter)
	if err != nil {
		b.logger.Warn("issue creation failed", zap.String("project", project), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}

	return r.Reply(ctx, msg, fmt.Sprintf("issue %s created - %s", issue.Key, issue.URL))
}

func (b *Bot) myIssues(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	email, ok, err := b.store.Lookup(ctx, msg.User.ID)
	if err != nil {
		b.logger.Error("identity lookup failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	if !ok {
		return r.Reply(ctx, msg, notIdentifiedReply)
	}

	issues, err := b.gateway.FetchIssues(ctx, tracker.AssigneeQuery(email))
	if err != nil {
		b.logger.Warn("myissues query failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	if len(issues) == 0 {
		return r.Reply(ctx, msg, noIssuesReply)
	}

	return r.Reply(ctx, msg, b.formatter.Issues(issues))
}

func (b *Bot) identify(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	email := caps["email"]
	if err := b.store.Remember(ctx, msg.User.ID, email); err != nil {
		b.logger.Error("identity save failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	return r.Reply(ctx, msg, fmt.Sprintf("you are now identified as %s", email))
}

func (b *Bot) forget(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	_, ok, err := b.store.Lookup(ctx, msg.User.ID)
	if err != nil {
		b.logger.Error("identity lookup failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	if !ok {
		return r.Reply(ctx, msg, notIdentifiedReply)
	}

	if err := b.store.Forget(ctx, msg.User.ID); err != nil {
		b.logger.Error("identity delete failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	return r.Reply(ctx, msg, forgottenReply)
}

func (b *Bot) whoami(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	email, ok, err := b.store.Lookup(ctx, msg.User.ID)
	if err != nil {
		b.logger.Error("identity lookup failed", zap.String("user", msg.User.ID), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}
	if !ok {
		return r.Reply(ctx, msg, notIdentifiedReply)
	}
	return r.Reply(ctx, msg, fmt.Sprintf("you are identified as %s", email))
}

func (b *Bot) point(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error {
	if b.cfg.Points.Field == "" {
		return r.Reply(ctx, msg, fieldUndefinedReply)
	}

	issue, err := b.gateway.FetchIssue(ctx, caps["issue"])
	if err != nil {
		b.logger.Warn("issue fetch failed", zap.String("key", caps["issue"]), zap.Error(err))
		return r.Reply(ctx, msg, errorReply)
	}

	points, err := strconv.Atoi(caps["points"])
	if err != nil {
		return r.Reply(ctx, msg, unableToPointReply)
	}

	if err := b.gateway.SetField(ctx, issue.Key, b.cfg.Points.Field, points); err != nil {
		b.logger.Warn("points update failed", zap.String("key", issue.Key), zap.Error(err))
		return r.Reply(ctx, msg, unableToPointReply)
	}

	return r.Reply(ctx, msg, fmt.Sprintf("%s pointed at %d", issue.Key, points))
}

// resolveProject applies the configured overrides to a parsed project key.
// An exact entry wins over the catch-all "*" entry; with neither, the
// parsed key stands.
func (b *Bot) resolveProject(project string) string {
	overrides := b.cfg.Projects.Overrides
	if forced, ok := overrides[project]; ok && forced != "" {
		return forced
	}
	if forced, ok := overrides["*"]; ok && forced != "" {
		return forced
	}
	return project
}
