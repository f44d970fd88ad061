package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/prediction"
)

// Gamba reports on the broadcaster's latest channel point prediction.
type Gamba struct {
	Deps
}

// NewGamba creates the prediction handler.
func NewGamba(deps Deps) *Gamba { return &Gamba{Deps: deps} }

func (h *Gamba) Name() database.Handler { return database.HandlerGamba }

type gambaContext struct {
	Title     string
	Outcomes  []prediction.Outcome
	State     prediction.State
	Window    time.Duration
	CreatedAt time.Time
}

func (h *Gamba) Handle(ctx context.Context, msg chat.Message) error {
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

	record, err := h.Predictions.LatestPrediction(ctx)
	if err != nil {
		return &UpstreamError{Source: "prediction", Err: err}
	}
	if record == nil {
		h.logger().DebugContext(ctx, "No prediction to report on", "channel", msg.Channel)
		return nil
	}

	state, err := record.Derive()
	if err != nil {
		// A malformed upstream record should not silence the whole handler
		// forever, so it is logged and the message skipped.
		h.logger().WarnContext(ctx, "Could not derive prediction state",
			"prediction_id", record.ID, "status", record.Status, "error", err)
		return nil
	}

	data := gambaContext{
		Title:     record.Title,
		Outcomes:  record.Outcomes,
		State:     state,
		Window:    record.Window,
		CreatedAt: record.CreatedAt,
	}
	return h.reply(ctx, msg, rule, data)
}
