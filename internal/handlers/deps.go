// Package handlers contains the content handlers that turn matched chat
// messages into replies, and the router that feeds messages through
// moderation and every handler in turn.
package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/matcher"
	"github.com/ostuni/ripbot/internal/opgg"
	"github.com/ostuni/ripbot/internal/prediction"
	"github.com/ostuni/ripbot/internal/render"
	"github.com/ostuni/ripbot/internal/throttle"
)

// Sender posts a reply into a channel, threaded under the message that
// triggered it.
type Sender interface {
	Reply(ctx context.Context, channel, parentMessageID, text string) error
}

// PredictionSource provides the broadcaster's most recent prediction, nil
// when none has ever been run.
type PredictionSource interface {
	LatestPrediction(ctx context.Context) (*prediction.Record, error)
}

// SummonerAPI covers the op.gg lookups the game handlers perform.
type SummonerAPI interface {
	GetSummoner(ctx context.Context, region opgg.Region, name string) (*opgg.Summoner, error)
	GetLastGame(ctx context.Context, region opgg.Region, summonerID string) (*opgg.Game, error)
	GetSpectateStatus(ctx context.Context, region opgg.Region, summonerID string) (opgg.SpectateStatus, error)
	GetSummonerSummary(ctx context.Context, region opgg.Region, summonerID string) (*opgg.Summary, error)
}

// ChampionSource resolves a champion key to its cached reference record.
type ChampionSource interface {
	GetChampionByKey(ctx context.Context, key int64) (*database.Champion, error)
}

// Deps carries the shared dependencies injected into every handler.
type Deps struct {
	Matcher     *matcher.Matcher
	Renderer    *render.Renderer
	Throttle    *throttle.Throttle
	Sender      Sender
	Predictions PredictionSource
	Summoners   SummonerAPI
	Champions   ChampionSource
	Logger      *slog.Logger
}

// logger returns the configured logger or a discarding fallback.
func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Handler reacts to a chat message. A nil error with no reply sent simply
// means the message was not for this handler.
type Handler interface {
	Name() database.Handler
	Handle(ctx context.Context, msg chat.Message) error
}
