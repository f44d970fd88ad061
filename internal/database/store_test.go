package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx/types"

	"github.com/ostuni/ripbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestGetEnabledRules(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	rules := []*database.Rule{
		{Handler: nullStr("npc"), Pattern: `^hello\b`, Template: "hi", Channel: nullStr("foo"), Enabled: true},
		{Handler: nullStr("npc"), Pattern: `^bye\b`, Template: "bye", Enabled: true}, // NULL channel, every channel
		{Handler: nullStr("gamba"), Pattern: `^!pred\b`, Template: "p", Channel: nullStr("foo"), Enabled: true},
		{Pattern: `^generic\b`, Template: "g", Channel: nullStr("foo"), Enabled: true}, // NULL handler, every handler
		{Handler: nullStr("npc"), Pattern: `^off\b`, Template: "o", Channel: nullStr("foo"), Enabled: false},
	}
	for _, r := range rules {
		if err := store.InsertRule(ctx, r); err != nil {
			t.Fatalf("InsertRule(%q) failed: %v", r.Pattern, err)
		}
	}
	if rules[0].ID == 0 {
		t.Fatal("InsertRule did not fill in the generated ID")
	}

	t.Run("channel match includes null channel and null handler", func(t *testing.T) {
		got, err := store.GetEnabledRules(ctx, database.HandlerNpc, "foo")
		if err != nil {
			t.Fatalf("GetEnabledRules() failed: %v", err)
		}

		patterns := make([]string, len(got))
		for i, r := range got {
			patterns[i] = r.Pattern
		}
		want := []string{`^hello\b`, `^bye\b`, `^generic\b`}
		if len(patterns) != len(want) {
			t.Fatalf("GetEnabledRules() = %v, want %v", patterns, want)
		}
		for i := range want {
			if patterns[i] != want[i] {
				t.Errorf("rule[%d] = %q, want %q (insertion order)", i, patterns[i], want[i])
			}
		}
	})

	t.Run("other channel sees only null channel rules", func(t *testing.T) {
		got, err := store.GetEnabledRules(ctx, database.HandlerNpc, "bar")
		if err != nil {
			t.Fatalf("GetEnabledRules() failed: %v", err)
		}
		if len(got) != 1 || got[0].Pattern != `^bye\b` {
			t.Errorf("GetEnabledRules() = %+v, want only the channel-less rule", got)
		}
	})

	t.Run("empty arguments rejected", func(t *testing.T) {
		if _, err := store.GetEnabledRules(ctx, "", "foo"); err == nil {
			t.Error("GetEnabledRules() with empty handler should fail")
		}
		if _, err := store.GetEnabledRules(ctx, database.HandlerNpc, ""); err == nil {
			t.Error("GetEnabledRules() with empty channel should fail")
		}
	})
}

func TestInsertRuleValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.InsertRule(ctx, nil); err == nil {
		t.Error("InsertRule(nil) should fail")
	}
	if err := store.InsertRule(ctx, &database.Rule{Template: "t"}); err == nil {
		t.Error("InsertRule without pattern should fail")
	}
	if err := store.InsertRule(ctx, &database.Rule{Pattern: "p"}); err == nil {
		t.Error("InsertRule without template should fail")
	}
}

func TestChampionCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	champion := &database.Champion{
		Key:     92,
		Version: "14.11.1",
		ID:      "Riven",
		Name:    "Riven",
		Title:   "the Exile",
		Blurb:   "Once a swordmaster...",
		Info:    types.JSONText(`{"attack": 8, "defense": 5}`),
		Image:   types.JSONText(`{"full": "Riven.png"}`),
		Tags:    types.JSONText(`["Fighter", "Assassin"]`),
		Partype: "Energy",
		Stats:   types.JSONText(`{"hp": 630}`),
	}

	if err := store.InsertChampion(ctx, champion); err != nil {
		t.Fatalf("InsertChampion() failed: %v", err)
	}

	got, err := store.GetChampionByKey(ctx, 92)
	if err != nil {
		t.Fatalf("GetChampionByKey() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetChampionByKey() = nil, want the inserted champion")
	}
	if got.Name != "Riven" || got.Partype != "Energy" {
		t.Errorf("GetChampionByKey() = %+v", got)
	}

	missing, err := store.GetChampionByKey(ctx, 999)
	if err != nil {
		t.Fatalf("GetChampionByKey() for missing key failed: %v", err)
	}
	if missing != nil {
		t.Errorf("GetChampionByKey(999) = %+v, want nil", missing)
	}

	if err := store.TruncateChampions(ctx); err != nil {
		t.Fatalf("TruncateChampions() failed: %v", err)
	}
	afterTruncate, err := store.GetChampionByKey(ctx, 92)
	if err != nil {
		t.Fatalf("GetChampionByKey() after truncate failed: %v", err)
	}
	if afterTruncate != nil {
		t.Error("champion cache should be empty after truncate")
	}
}
