package handlers

import (
	"context"
	"fmt"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/opgg"
)

// Sniffa reports whether the configured summoner is in a game right now.
type Sniffa struct {
	Deps
}

// NewSniffa creates the live game handler.
func NewSniffa(deps Deps) *Sniffa { return &Sniffa{Deps: deps} }

func (h *Sniffa) Name() database.Handler { return database.HandlerSniffa }

type sniffaContext struct {
	Summoner opgg.Summoner
	InGame   bool
	Game     *opgg.SpectateGame
}

func (h *Sniffa) Handle(ctx context.Context, msg chat.Message) error {
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

	status, err := h.Summoners.GetSpectateStatus(ctx, inputs.Region, summoner.SummonerID)
	if err != nil {
		return &UpstreamError{Source: "spectate", Err: err}
	}

	data := sniffaContext{Summoner: *summoner, InGame: status.InGame(), Game: status.Game}
	return h.reply(ctx, msg, rule, data)
}
