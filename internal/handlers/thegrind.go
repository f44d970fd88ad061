package handlers

import (
	"context"
	"fmt"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/opgg"
)

// TheGrind reports the configured summoner's ranked standing and the latest
// swing of their point history.
type TheGrind struct {
	Deps
}

// NewTheGrind creates the ranked history handler.
func NewTheGrind(deps Deps) *TheGrind { return &TheGrind{Deps: deps} }

func (h *TheGrind) Name() database.Handler { return database.HandlerTheGrind }

type theGrindContext struct {
	Summary       opgg.Summary
	LastLPHistory *opgg.LPHistory
}

func (h *TheGrind) Handle(ctx context.Context, msg chat.Message) error {
	rule, err := h.Matcher.Match(ctx, h.Name(), msg)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	if rule == nil {
		return nil
	}

	inputs, err := decodeStatsInputs(rule)
	if err != nil {
		return err
	}

	if h.Throttle.ShouldSuppress(rule.ID, msg.Sender.IsPrivileged()) {
		return nil
	}

	summoner, err := h.Summoners.GetSummoner(ctx, inputs.Region, inputs.SummonerName)
	if err != nil {
		return &UpstreamError{Source: "summoner", Err: err}
	}

	summary, err := h.Summoners.GetSummonerSummary(ctx, inputs.Region, summoner.SummonerID)
	if err != nil {
		return &UpstreamError{Source: "summary", Err: err}
	}

	data := theGrindContext{Summary: *summary, LastLPHistory: summary.LastLPHistory()}
	return h.reply(ctx, msg, rule, data)
}
