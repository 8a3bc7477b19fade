// Package bot routes inbound chat messages: explicit commands through the
// handler table, everything else through ambient issue detection.
package bot

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/newrelic-forks/lita-jira/internal/config"
	"github.com/newrelic-forks/lita-jira/internal/format"
	"github.com/newrelic-forks/lita-jira/internal/identity"
	"github.com/newrelic-forks/lita-jira/internal/pattern"
	"github.com/newrelic-forks/lita-jira/internal/tracker"
	"github.com/newrelic-forks/lita-jira/pkg/types"
)

// Responder delivers a reply for an inbound message. The bot never talks
// to the chat platform directly.
type Responder interface {
	Reply(ctx context.Context, msg *types.Message, text string) error
}

// handler runs one matched command with its captured fragments.
type handler func(ctx context.Context, msg *types.Message, caps map[string]string, r Responder) error

// command binds a matcher to its handler.
type command struct {
	re  *regexp.Regexp
	run handler
}

// Bot dispatches messages against the command table and the ambient
// detector.
type Bot struct {
	cfg       *config.Config
	gateway   tracker.Gateway
	store     identity.Store
	formatter *format.Formatter
	logger    *zap.Logger
	commands  []command
}

// New builds the dispatcher. The point command joins the table only when
// points.enabled is set; it stays recognized but unwired otherwise.
func New(cfg *config.Config, gateway tracker.Gateway, store identity.Store, logger *zap.Logger) *Bot {
	b := &Bot{
		cfg:       cfg,
		gateway:   gateway,
		store:     store,
		formatter: format.New(cfg.Bot.Format),
		logger:    logger,
	}

	// Fixed priority order; the first matching pattern wins.
	b.commands = []command{
		{pattern.Summary, b.summary},
		{pattern.Details, b.details},
		{pattern.MyIssues, b.myIssues},
		{pattern.Comment, b.comment},
		{pattern.Todo, b.todo},
		{pattern.Identify, b.identify},
		{pattern.Forget, b.forget},
		{pattern.Whoami, b.whoami},
	}
	if cfg.Points.Enabled {
		b.commands = append(b.commands, command{pattern.Point, b.point})
	}

	return b
}

// HandleMessage routes one inbound message and is terminal after at most
// one reply. Addressed messages run the first matching command, or nothing
// when none matches; non-addressed messages go to ambient detection. The
// returned error reports reply delivery only; tracker and store failures
// are answered in chat or swallowed per command contract.
func (b *Bot) HandleMessage(ctx context.Context, msg *types.Message, r Responder) error {
	if msg.Addressed {
		text := strings.TrimSpace(msg.Text)
		for _, cmd := range b.commands {
			caps, ok := pattern.Captures(cmd.re, text)
			if !ok {
				continue
			}
			return cmd.run(ctx, msg, caps, r)
		}
		return nil
	}

	return b.ambient(ctx, msg, r)
}
