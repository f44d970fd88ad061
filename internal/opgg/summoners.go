package opgg

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// Summoner is a player profile as returned by the autocomplete endpoint.
type Summoner struct {
	ID              int64     `json:"id"`
	SummonerID      string    `json:"summoner_id"`
	AcctID          string    `json:"acct_id"`
	Puuid           string    `json:"puuid"`
	Name            string    `json:"name"`
	InternalName    string    `json:"internal_name"`
	ProfileImageURL string    `json:"profile_image_url"`
	Level           int64     `json:"level"`
	UpdatedAt       time.Time `json:"updated_at"`
	SoloTierInfo    *TierInfo `json:"solo_tier_info"`
}

// LPHistory is one entry of a summoner's ranked point history.
type LPHistory struct {
	TierInfo  TierInfo  `json:"tier_info"`
	ElapsedLP int64     `json:"elapsed_lp"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a summoner profile with its ranked history attached.
type Summary struct {
	Summoner    Summoner    `json:"summoner"`
	LPHistories []LPHistory `json:"lp_histories"`
}

// LastLPHistory returns the most recent history entry, or nil when the
// summoner has none this season.
func (s Summary) LastLPHistory() *LPHistory {
	if len(s.LPHistories) == 0 {
		return nil
	}
	histories := make([]LPHistory, len(s.LPHistories))
	copy(histories, s.LPHistories)
	sort.Slice(histories, func(i, j int) bool {
		return histories[i].CreatedAt.After(histories[j].CreatedAt)
	})
	return &histories[0]
}

// GetSummoner looks up a summoner by exact name through the autocomplete
// endpoint. Zero or multiple candidates are errors so a reply never reports
// the wrong player.
func (c *Client) GetSummoner(ctx context.Context, region Region, name string) (*Summoner, error) {
	var result struct {
		Data []Summoner `json:"data"`
	}

	query := url.Values{"keyword": []string{name}}
	path := fmt.Sprintf("/summoners/%s/autocomplete", region)
	if err := c.getJSON(ctx, path, query, &result); err != nil {
		return nil, err
	}

	switch len(result.Data) {
	case 1:
		return &result.Data[0], nil
	case 0:
		return nil, fmt.Errorf("no summoner found with name %q in region %s", name, region)
	default:
		return nil, fmt.Errorf("found %d summoners with name %q in region %s", len(result.Data), name, region)
	}
}

// GetSummonerSummary fetches a summoner's profile with ranked history.
func (c *Client) GetSummonerSummary(ctx context.Context, region Region, summonerID string) (*Summary, error) {
	var result struct {
		Data Summary `json:"data"`
	}

	path := fmt.Sprintf("/summoners/%s/%s/summary", region, summonerID)
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}
