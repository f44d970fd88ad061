package twitch

import (
	"testing"
	"time"

	irc "github.com/gempir/go-twitch-irc/v4"
	"github.com/nicklaw5/helix/v2"

	"github.com/ostuni/ripbot/internal/prediction"
)

func TestToMessage(t *testing.T) {
	t.Parallel()

	m := irc.PrivateMessage{
		ID:      "msg-1",
		Channel: "somechannel",
		Message: "@parent hello",
		User: irc.User{
			ID:          "123",
			Name:        "viewer",
			DisplayName: "Viewer",
			Badges:      map[string]int{"moderator": 1},
		},
		Tags: map[string]string{"reply-parent-user-login": "parent"},
	}

	got := toMessage(m)

	if got.ID != "msg-1" || got.Channel != "somechannel" {
		t.Errorf("toMessage() = %+v", got)
	}
	if got.ReplyParentLogin != "parent" {
		t.Errorf("ReplyParentLogin = %q, want parent", got.ReplyParentLogin)
	}
	if got.Text() != "hello" {
		t.Errorf("Text() = %q, want hello", got.Text())
	}
	if !got.Sender.IsPrivileged() {
		t.Error("moderator badge should carry over")
	}
	if got.IsAction {
		t.Error("IsAction = true for a plain message")
	}

	m.Action = true
	if !toMessage(m).IsAction {
		t.Error("IsAction = false for a /me message")
	}
}

func TestToRecord(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	locked := created.Add(5 * time.Minute)

	p := helix.Prediction{
		ID:               "pred-1",
		Title:            "Will we win",
		Status:           "RESOLVED",
		PredictionWindow: 300,
		WinningOutcomeID: "out-1",
		CreatedAt:        helix.Time{Time: created},
		LockedAt:         helix.Time{Time: locked},
		Outcomes: []helix.Outcomes{
			{ID: "out-1", Title: "Yes", Users: 10, ChannelPoints: 5000, Color: "BLUE"},
			{ID: "out-2", Title: "No", Users: 3, ChannelPoints: 900, Color: "PINK"},
		},
	}

	record := toRecord(p)

	if record.Window != 5*time.Minute {
		t.Errorf("Window = %v, want 5m", record.Window)
	}
	if record.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil for zero timestamp", record.EndedAt)
	}
	if record.LockedAt == nil || !record.LockedAt.Equal(locked) {
		t.Errorf("LockedAt = %v, want %v", record.LockedAt, locked)
	}
	if len(record.Outcomes) != 2 || record.Outcomes[0].ChannelPoints != 5000 {
		t.Errorf("Outcomes = %+v", record.Outcomes)
	}

	state, err := record.Derive()
	if err != nil {
		t.Fatalf("Derive() unexpected error: %v", err)
	}
	if state.Name != prediction.StatePaid || state.Winner == nil || state.Winner.ID != "out-1" {
		t.Errorf("Derive() = %+v", state)
	}
}
