package bot

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/newrelic-forks/lita-jira/internal/pattern"
	"github.com/newrelic-forks/lita-jira/internal/tracker"
	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// ambient surfaces bare issue-key mentions in a non-addressed message.
// Suppression is evaluated before any tracker call; every tracker failure
// here ends in silence, never an error reply.
func (b *Bot) ambient(ctx context.Context, msg *types.Message, r Responder) error {
	if b.suppressed(msg) {
		return nil
	}

	mentions := pattern.Mentions(msg.Text)
	if len(mentions) == 0 {
		return nil
	}

	if len(mentions) == 1 {
		issue, err := b.gateway.FetchIssue(ctx, mentions[0].Key)
		if err != nil {
			b.logger.Debug("ambient fetch failed",
				zap.String("key", mentions[0].Key), zap.Error(err))
			return nil
		}
		return r.Reply(ctx, msg, b.formatter.Issue(issue))
	}

	// One batched query for the whole message. The tracker either resolves
	// every key or rejects the batch; partial results are never fabricated
	// locally.
	keys := make([]string, 0, len(mentions))
	for _, mention := range mentions {
		keys = append(keys, mention.Key)
	}

	issues, err := b.gateway.FetchIssues(ctx, tracker.KeysQuery(keys))
	if err != nil {
		b.logger.Debug("ambient batch failed", zap.Strings("keys", keys), zap.Error(err))
		return nil
	}
	if len(issues) == 0 {
		return nil
	}

	return r.Reply(ctx, msg, b.formatter.Issues(issues))
}

// suppressed reports whether this message is exempt from ambient replies:
// detection disabled, sender on the ignore list (by id, mention handle or
// display name), or a room allow-list that excludes the message's room.
func (b *Bot) suppressed(msg *types.Message) bool {
	if !b.cfg.Bot.Ambient {
		return true
	}

	for _, entry := range b.cfg.Bot.Ignore {
		if entry == msg.User.ID || entry == msg.User.MentionName || entry == msg.User.Name {
			return true
		}
	}

	if len(b.cfg.Bot.Rooms) > 0 && !slices.Contains(b.cfg.Bot.Rooms, msg.Room) {
		return true
	}

	return false
}
