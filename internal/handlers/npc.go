package handlers

import (
	"context"
	"fmt"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
)

// Npc answers plain canned replies: the rule template is rendered with no
// external context at all.
type Npc struct {
	Deps
}

// NewNpc creates the canned reply handler.
func NewNpc(deps Deps) *Npc { return &Npc{Deps: deps} }

func (h *Npc) Name() database.Handler { return database.HandlerNpc }

func (h *Npc) Handle(ctx context.Context, msg chat.Message) error {
	rule, err := h.Matcher.Match(ctx, h.Name(), msg)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	if rule == nil {
		return nil
	}

	if h.Throttle.ShouldSuppress(rule.ID, msg.Sender.IsPrivileged()) {
		return nil
	}

	return h.reply(ctx, msg, rule, nil)
}
