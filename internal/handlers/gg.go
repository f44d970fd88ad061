package handlers

import (
	"context"
	"fmt"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/opgg"
)

// Gg reports the result of the configured summoner's most recent game.
type Gg struct {
	Deps
}

// NewGg creates the last game handler.
func NewGg(deps Deps) *Gg { return &Gg{Deps: deps} }

func (h *Gg) Name() database.Handler { return database.HandlerGg }

type ggContext struct {
	Summoner opgg.Summoner
	Game     opgg.Game
	Champion *database.Champion
}

func (h *Gg) Handle(ctx context.Context, msg chat.Message) error {
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

	game, err := h.Summoners.GetLastGame(ctx, inputs.Region, summoner.SummonerID)
	if err != nil {
		return &UpstreamError{Source: "games", Err: err}
	}
	if game == nil {
		h.logger().DebugContext(ctx, "Summoner has no recorded games",
			"summoner", inputs.SummonerName, "region", inputs.Region)
		return nil
	}

	// A cache miss just means the reply goes out without the champion name.
	champion, err := h.Champions.GetChampionByKey(ctx, game.MyData.ChampionKey)
	if err != nil {
		h.logger().WarnContext(ctx, "Champion lookup failed",
			"champion_key", game.MyData.ChampionKey, "error", err)
	}

	data := ggContext{Summoner: *summoner, Game: *game, Champion: champion}
	return h.reply(ctx, msg, rule, data)
}
