package opgg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SpectateStatus reports whether a summoner is currently in a game. Game is
// nil when they are not.
type SpectateStatus struct {
	Game *SpectateGame
}

// InGame reports whether a live game was found.
func (s SpectateStatus) InGame() bool { return s.Game != nil }

// SpectateGame is a live game in progress.
type SpectateGame struct {
	GameID       string                `json:"game_id"`
	CreatedAt    time.Time             `json:"created_at"`
	Map          string                `json:"game_map"`
	QueueInfo    SpectateQueueInfo     `json:"queue_info"`
	Participants []SpectateParticipant `json:"participants"`
}

// SpectateQueueInfo describes the queue of a live game.
type SpectateQueueInfo struct {
	ID       int64  `json:"id"`
	GameType string `json:"game_type"`
}

// SpectateParticipant is one player in a live game.
type SpectateParticipant struct {
	Summoner    Summoner `json:"summoner"`
	TeamKey     string   `json:"team_key"`
	ChampionKey int64    `json:"champion_id"`
	Position    string   `json:"position"`
}

// GetSpectateStatus fetches the live game of a summoner. The endpoint answers
// with either a game payload or a not-found body carrying an error code, so
// the response shape is probed before deciding.
func (c *Client) GetSpectateStatus(ctx context.Context, region Region, summonerID string) (SpectateStatus, error) {
	var result struct {
		Code int64           `json:"code"`
		Data json.RawMessage `json:"data"`
	}

	path := fmt.Sprintf("/spectates/%s/%s", region, summonerID)
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return SpectateStatus{}, err
	}

	if len(result.Data) == 0 || string(result.Data) == "null" {
		return SpectateStatus{}, nil
	}

	var game SpectateGame
	if err := json.Unmarshal(result.Data, &game); err != nil {
		return SpectateStatus{}, fmt.Errorf("failed to decode spectate payload: %w", err)
	}
	return SpectateStatus{Game: &game}, nil
}
