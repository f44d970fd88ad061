package handlers

import (
	"context"
	"encoding/json"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/opgg"
)

// statsInputs is the per-rule configuration of the game lookup handlers,
// stored as JSON on the rule itself so every channel can point at its own
// account.
type statsInputs struct {
	Region       opgg.Region `json:"region"`
	SummonerName string      `json:"summoner_name"`
}

func decodeStatsInputs(rule *database.Rule) (statsInputs, error) {
	if !rule.AdditionalInputs.Valid {
		return statsInputs{}, &MissingInputsError{RuleID: rule.ID}
	}

	var inputs statsInputs
	if err := json.Unmarshal(rule.AdditionalInputs.JSONText, &inputs); err != nil {
		return statsInputs{}, &DecodeInputsError{RuleID: rule.ID, Err: err}
	}
	return inputs, nil
}

// reply renders the rule template and posts the result under the triggering
// message. Render failures, an empty result included, are returned so the
// router records them.
func (d Deps) reply(ctx context.Context, msg chat.Message, rule *database.Rule, data any) error {
	out, err := d.Renderer.Render(rule.ID, rule.Template, data)
	if err != nil {
		return err
	}
	return d.Sender.Reply(ctx, msg.Channel, msg.ID, out)
}
