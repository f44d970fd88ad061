package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/ostuni/ripbot/internal/chat"
)

// Moderator inspects a message and deletes it when it trips the spam
// heuristic, reporting whether it did.
type Moderator interface {
	Inspect(ctx context.Context, msg chat.Message) (bool, error)
}

// Router feeds every inbound message through moderation first and then
// through each content handler in a fixed order. A deleted message reaches
// no handler. A failing handler is logged and never takes the others down.
type Router struct {
	moderator Moderator
	handlers  []Handler
	logger    *slog.Logger
}

// NewRouter creates a Router. moderator may be nil when moderation is
// disabled.
func NewRouter(moderator Moderator, handlers []Handler, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{
		moderator: moderator,
		handlers:  handlers,
		logger:    logger.With("component", "router"),
	}
}

// Route processes one message end to end. /me messages are ignored entirely.
func (r *Router) Route(ctx context.Context, msg chat.Message) {
	if msg.IsAction {
		return
	}

	if r.moderator != nil {
		deleted, err := r.moderator.Inspect(ctx, msg)
		if err != nil {
			r.logger.ErrorContext(ctx, "Moderation failed",
				"channel", msg.Channel, "message_id", msg.ID, "error", err)
		}
		if deleted {
			return
		}
	}

	for _, h := range r.handlers {
		if err := h.Handle(ctx, msg); err != nil {
			r.logger.ErrorContext(ctx, "Handler failed",
				"handler", h.Name(), "channel", msg.Channel, "message_id", msg.ID, "error", err)
		}
	}
}
