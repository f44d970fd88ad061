package handlers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/handlers"
	"github.com/ostuni/ripbot/internal/matcher"
	"github.com/ostuni/ripbot/internal/opgg"
	"github.com/ostuni/ripbot/internal/prediction"
	"github.com/ostuni/ripbot/internal/render"
	"github.com/ostuni/ripbot/internal/throttle"
)

type fakeRuleSource struct {
	rules map[database.Handler][]database.Rule
}

func (f *fakeRuleSource) GetEnabledRules(_ context.Context, handler database.Handler, _ string) ([]database.Rule, error) {
	return f.rules[handler], nil
}

type fakeSender struct {
	replies []string
	err     error
}

func (s *fakeSender) Reply(_ context.Context, _, _, text string) error {
	if s.err != nil {
		return s.err
	}
	s.replies = append(s.replies, text)
	return nil
}

type fakePredictions struct {
	record *prediction.Record
	err    error
}

func (p *fakePredictions) LatestPrediction(_ context.Context) (*prediction.Record, error) {
	return p.record, p.err
}

type fakeSummoners struct {
	summoner *opgg.Summoner
	game     *opgg.Game
	spectate opgg.SpectateStatus
	summary  *opgg.Summary
	err      error
}

func (f *fakeSummoners) GetSummoner(_ context.Context, _ opgg.Region, _ string) (*opgg.Summoner, error) {
	return f.summoner, f.err
}

func (f *fakeSummoners) GetLastGame(_ context.Context, _ opgg.Region, _ string) (*opgg.Game, error) {
	return f.game, f.err
}

func (f *fakeSummoners) GetSpectateStatus(_ context.Context, _ opgg.Region, _ string) (opgg.SpectateStatus, error) {
	return f.spectate, f.err
}

func (f *fakeSummoners) GetSummonerSummary(_ context.Context, _ opgg.Region, _ string) (*opgg.Summary, error) {
	return f.summary, f.err
}

type fakeChampions struct {
	champion *database.Champion
}

func (f *fakeChampions) GetChampionByKey(_ context.Context, _ int64) (*database.Champion, error) {
	return f.champion, nil
}

func newDeps(rules map[database.Handler][]database.Rule, sender *fakeSender) handlers.Deps {
	return handlers.Deps{
		Matcher:  matcher.New(&fakeRuleSource{rules: rules}, nil),
		Renderer: render.New(time.UTC),
		Throttle: throttle.New(0),
		Sender:   sender,
	}
}

func npcRule(id int64, pattern, template string) database.Rule {
	return database.Rule{ID: id, Pattern: pattern, Template: template, Enabled: true}
}

func withInputs(rule database.Rule, inputs string) database.Rule {
	rule.AdditionalInputs = types.NullJSONText{JSONText: types.JSONText(inputs), Valid: true}
	return rule
}

func message(text string) chat.Message {
	return chat.Message{ID: "m1", Channel: "chan", Raw: text, Sender: chat.Sender{Login: "viewer"}}
}

func TestNpcHandle(t *testing.T) {
	t.Parallel()

	t.Run("replies on match", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerNpc: {npcRule(1, `^hello\b`, "hi chat")},
		}, sender)

		h := handlers.NewNpc(deps)
		if err := h.Handle(context.Background(), message("hello there")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "hi chat" {
			t.Errorf("replies = %v, want [hi chat]", sender.replies)
		}
	})

	t.Run("no match sends nothing", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerNpc: {npcRule(1, `^hello\b`, "hi chat")},
		}, sender)

		h := handlers.NewNpc(deps)
		if err := h.Handle(context.Background(), message("good morning")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 0 {
			t.Errorf("replies = %v, want none", sender.replies)
		}
	})

	t.Run("empty rendered template is an error", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerNpc: {npcRule(1, `^hello\b`, "   ")},
		}, sender)

		h := handlers.NewNpc(deps)
		if err := h.Handle(context.Background(), message("hello there")); !errors.Is(err, render.ErrEmptyOutput) {
			t.Fatalf("Handle() error = %v, want render.ErrEmptyOutput", err)
		}
		if len(sender.replies) != 0 {
			t.Errorf("replies = %v, want none", sender.replies)
		}
	})

	t.Run("throttled repeat sends once", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerNpc: {npcRule(1, `^hello\b`, "hi chat")},
		}, sender)
		deps.Throttle = throttle.New(time.Minute)

		h := handlers.NewNpc(deps)
		for range 3 {
			if err := h.Handle(context.Background(), message("hello there")); err != nil {
				t.Fatalf("Handle() unexpected error: %v", err)
			}
		}
		if len(sender.replies) != 1 {
			t.Errorf("replies = %v, want exactly one", sender.replies)
		}
	})
}

func TestGambaHandle(t *testing.T) {
	t.Parallel()

	rules := map[database.Handler][]database.Rule{
		database.HandlerGamba: {npcRule(2, `^!prediction\b`, "{{ .Title }}: {{ .State.Name }}")},
	}

	t.Run("reports derived state", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Predictions = &fakePredictions{record: &prediction.Record{
			ID:     "p1",
			Title:  "Win the next game",
			Status: prediction.StatusActive,
		}}

		h := handlers.NewGamba(deps)
		if err := h.Handle(context.Background(), message("!prediction")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "Win the next game: Up" {
			t.Errorf("replies = %v", sender.replies)
		}
	})

	t.Run("no prediction is silent", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Predictions = &fakePredictions{}

		h := handlers.NewGamba(deps)
		if err := h.Handle(context.Background(), message("!prediction")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 0 {
			t.Errorf("replies = %v, want none", sender.replies)
		}
	})

	t.Run("underivable record is logged not fatal", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Predictions = &fakePredictions{record: &prediction.Record{
			ID:     "p1",
			Status: prediction.StatusLocked, // no ended_at
		}}

		h := handlers.NewGamba(deps)
		if err := h.Handle(context.Background(), message("!prediction")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 0 {
			t.Errorf("replies = %v, want none", sender.replies)
		}
	})

	t.Run("upstream failure is an error", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Predictions = &fakePredictions{err: errors.New("helix down")}

		h := handlers.NewGamba(deps)
		var upstream *handlers.UpstreamError
		if err := h.Handle(context.Background(), message("!prediction")); !errors.As(err, &upstream) {
			t.Fatalf("Handle() error = %v, want *UpstreamError", err)
		}
	})
}

func TestGgHandle(t *testing.T) {
	t.Parallel()

	ggRules := map[database.Handler][]database.Rule{
		database.HandlerGg: {withInputs(
			npcRule(3, `^!gg\b`, "{{ .Summoner.Name }} went {{ .Game.MyData.Stats.Kill }}/{{ .Game.MyData.Stats.Death }} on {{ .Champion.Name }}"),
			`{"region": "euw", "summoner_name": "player one"}`,
		)},
	}

	t.Run("merges game and champion", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(ggRules, sender)
		deps.Summoners = &fakeSummoners{
			summoner: &opgg.Summoner{SummonerID: "s1", Name: "player one"},
			game: &opgg.Game{
				ID: "g1",
				MyData: opgg.GameParticipant{
					ChampionKey: 92,
					Stats:       opgg.GameStats{Kill: 7, Death: 2, Result: "WIN"},
				},
			},
		}
		deps.Champions = &fakeChampions{champion: &database.Champion{Key: 92, Name: "Riven"}}

		h := handlers.NewGg(deps)
		if err := h.Handle(context.Background(), message("!gg")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		want := "player one went 7/2 on Riven"
		if len(sender.replies) != 1 || sender.replies[0] != want {
			t.Errorf("replies = %v, want [%s]", sender.replies, want)
		}
	})

	t.Run("missing inputs is a typed error", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerGg: {npcRule(3, `^!gg\b`, "{{ .Summoner.Name }}")},
		}, sender)
		deps.Summoners = &fakeSummoners{}
		deps.Champions = &fakeChampions{}

		h := handlers.NewGg(deps)
		var missing *handlers.MissingInputsError
		if err := h.Handle(context.Background(), message("!gg")); !errors.As(err, &missing) {
			t.Fatalf("Handle() error = %v, want *MissingInputsError", err)
		}
	})

	t.Run("undecodable inputs is a typed error", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(map[database.Handler][]database.Rule{
			database.HandlerGg: {withInputs(npcRule(3, `^!gg\b`, "x"), `{"region": 7}`)},
		}, sender)
		deps.Summoners = &fakeSummoners{}
		deps.Champions = &fakeChampions{}

		h := handlers.NewGg(deps)
		var decode *handlers.DecodeInputsError
		if err := h.Handle(context.Background(), message("!gg")); !errors.As(err, &decode) {
			t.Fatalf("Handle() error = %v, want *DecodeInputsError", err)
		}
	})

	t.Run("no games is silent", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(ggRules, sender)
		deps.Summoners = &fakeSummoners{summoner: &opgg.Summoner{SummonerID: "s1"}}
		deps.Champions = &fakeChampions{}

		h := handlers.NewGg(deps)
		if err := h.Handle(context.Background(), message("!gg")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 0 {
			t.Errorf("replies = %v, want none", sender.replies)
		}
	})
}

func TestSniffaHandle(t *testing.T) {
	t.Parallel()

	rules := map[database.Handler][]database.Rule{
		database.HandlerSniffa: {withInputs(
			npcRule(4, `^!live\b`, "{{ if .InGame }}live on {{ .Game.Map }}{{ else }}offline{{ end }}"),
			`{"region": "euw", "summoner_name": "player one"}`,
		)},
	}

	t.Run("in game", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Summoners = &fakeSummoners{
			summoner: &opgg.Summoner{SummonerID: "s1"},
			spectate: opgg.SpectateStatus{Game: &opgg.SpectateGame{GameID: "live-1", Map: "SUMMONERS_RIFT"}},
		}

		h := handlers.NewSniffa(deps)
		if err := h.Handle(context.Background(), message("!live")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "live on SUMMONERS_RIFT" {
			t.Errorf("replies = %v", sender.replies)
		}
	})

	t.Run("not in game", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Summoners = &fakeSummoners{summoner: &opgg.Summoner{SummonerID: "s1"}}

		h := handlers.NewSniffa(deps)
		if err := h.Handle(context.Background(), message("!live")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "offline" {
			t.Errorf("replies = %v", sender.replies)
		}
	})
}

func TestTheGrindHandle(t *testing.T) {
	t.Parallel()

	rules := map[database.Handler][]database.Rule{
		database.HandlerTheGrind: {withInputs(
			npcRule(5, `^!rank\b`, "{{ with .LastLPHistory }}last swing {{ .ElapsedLP }} lp{{ else }}no games yet{{ end }}"),
			`{"region": "euw", "summoner_name": "player one"}`,
		)},
	}

	t.Run("reports latest swing", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Summoners = &fakeSummoners{
			summoner: &opgg.Summoner{SummonerID: "s1"},
			summary: &opgg.Summary{LPHistories: []opgg.LPHistory{
				{ElapsedLP: 21, CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
				{ElapsedLP: -17, CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
			}},
		}

		h := handlers.NewTheGrind(deps)
		if err := h.Handle(context.Background(), message("!rank")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "last swing -17 lp" {
			t.Errorf("replies = %v", sender.replies)
		}
	})

	t.Run("no history", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		deps := newDeps(rules, sender)
		deps.Summoners = &fakeSummoners{
			summoner: &opgg.Summoner{SummonerID: "s1"},
			summary:  &opgg.Summary{},
		}

		h := handlers.NewTheGrind(deps)
		if err := h.Handle(context.Background(), message("!rank")); err != nil {
			t.Fatalf("Handle() unexpected error: %v", err)
		}
		if len(sender.replies) != 1 || sender.replies[0] != "no games yet" {
			t.Errorf("replies = %v", sender.replies)
		}
	})
}
