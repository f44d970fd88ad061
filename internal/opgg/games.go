package opgg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Game is a finished match from a summoner's history. Only the fields the
// reply templates consume are mapped.
type Game struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	Map             string          `json:"game_map"`
	QueueInfo       GameQueueInfo   `json:"queue_info"`
	Version         string          `json:"version"`
	LengthSeconds   int64           `json:"game_length_second"`
	IsRemake        bool            `json:"is_remake"`
	AverageTierInfo TierInfo        `json:"average_tier_info"`
	MyData          GameParticipant `json:"myData"`
}

// Duration returns the match length.
func (g Game) Duration() time.Duration {
	return time.Duration(g.LengthSeconds) * time.Second
}

// GameQueueInfo describes the queue a game was played in.
type GameQueueInfo struct {
	ID             int64  `json:"id"`
	QueueTranslate string `json:"queue_translate"`
	GameType       string `json:"game_type"`
}

// GameParticipant is one player's line in a finished game.
type GameParticipant struct {
	Summoner    Summoner  `json:"summoner"`
	ChampionKey int64     `json:"champion_id"`
	TeamKey     string    `json:"team_key"`
	Position    string    `json:"position"`
	Stats       GameStats `json:"stats"`
	TierInfo    TierInfo  `json:"tier_info"`
}

// GameStats is the score line of a participant.
type GameStats struct {
	ChampionLevel int64   `json:"champion_level"`
	Kill          int64   `json:"kill"`
	Death         int64   `json:"death"`
	Assist        int64   `json:"assist"`
	MinionKill    int64   `json:"minion_kill"`
	GoldEarned    int64   `json:"gold_earned"`
	VisionScore   int64   `json:"vision_score"`
	Result        string  `json:"result"`
	OpScore       float64 `json:"op_score"`
	OpScoreRank   int64   `json:"op_score_rank"`
}

// GetLastGame returns the most recent game of a summoner, or nil when the
// history is empty.
func (c *Client) GetLastGame(ctx context.Context, region Region, summonerID string) (*Game, error) {
	var result struct {
		Data []Game `json:"data"`
	}

	query := url.Values{
		"game_type": []string{"total"},
		"limit":     []string{strconv.Itoa(1)},
	}
	path := fmt.Sprintf("/games/%s/summoners/%s", region, summonerID)
	if err := c.getJSON(ctx, path, query, &result); err != nil {
		return nil, err
	}

	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}
