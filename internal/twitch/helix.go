// Package twitch adapts the Twitch transports, IRC for chat and Helix for
// everything else, to the interfaces the pipeline consumes.
package twitch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"

	"github.com/ostuni/ripbot/internal/moderation"
	"github.com/ostuni/ripbot/internal/prediction"
)

// HelixConfig carries the credentials for the Helix API client.
type HelixConfig struct {
	ClientID      string
	ClientSecret  string
	AccessToken   string
	RefreshToken  string
	BroadcasterID string
	BotUserID     string
}

// Helix wraps the Helix API client for predictions, message deletion and
// token upkeep. Token state is mutable because refreshes rotate both tokens,
// so all access goes through the mutex.
type Helix struct {
	client *helix.Client
	logger *slog.Logger

	broadcasterID string
	botUserID     string

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewHelix creates a Helix adapter from static credentials.
func NewHelix(cfg HelixConfig, logger *slog.Logger) (*Helix, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := helix.NewClient(&helix.Options{
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		UserAccessToken: cfg.AccessToken,
		RefreshToken:    cfg.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create helix client: %w", err)
	}

	return &Helix{
		client:        client,
		logger:        logger.With("component", "helix"),
		broadcasterID: cfg.BroadcasterID,
		botUserID:     cfg.BotUserID,
		accessToken:   cfg.AccessToken,
		refreshToken:  cfg.RefreshToken,
	}, nil
}

// LatestPrediction fetches the broadcaster's most recent prediction, nil when
// none exists.
func (h *Helix) LatestPrediction(_ context.Context) (*prediction.Record, error) {
	resp, err := h.client.GetPredictions(&helix.PredictionsParams{
		BroadcasterID: h.broadcasterID,
		First:         "1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictions request returned status %d: %s", resp.StatusCode, resp.ErrorMessage)
	}
	if len(resp.Data.Predictions) == 0 {
		return nil, nil
	}

	record := toRecord(resp.Data.Predictions[0])
	return &record, nil
}

func toRecord(p helix.Prediction) prediction.Record {
	outcomes := make([]prediction.Outcome, len(p.Outcomes))
	for i, o := range p.Outcomes {
		outcomes[i] = prediction.Outcome{
			ID:            o.ID,
			Title:         o.Title,
			Users:         o.Users,
			ChannelPoints: int64(o.ChannelPoints),
			Color:         o.Color,
		}
	}

	return prediction.Record{
		ID:               p.ID,
		Title:            p.Title,
		Outcomes:         outcomes,
		Status:           p.Status,
		Window:           time.Duration(p.PredictionWindow) * time.Second,
		CreatedAt:        p.CreatedAt.Time,
		EndedAt:          optionalTime(p.EndedAt.Time),
		LockedAt:         optionalTime(p.LockedAt.Time),
		WinningOutcomeID: p.WinningOutcomeID,
	}
}

// optionalTime maps the zero value the API reports for unset timestamps to
// nil so downstream code can tell "not yet" from "at epoch".
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// DeleteMessage removes a chat message from the broadcaster's channel. A 401
// response is wrapped in moderation.ErrUnauthorized so the caller can refresh
// and retry.
func (h *Helix) DeleteMessage(_ context.Context, _ string, messageID string) error {
	resp, err := h.client.DeleteChatMessage(&helix.DeleteChatMessageParams{
		BroadcasterID: h.broadcasterID,
		ModeratorID:   h.botUserID,
		MessageID:     messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("deleting message %s: %w", messageID, moderation.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete message request returned status %d: %s", resp.StatusCode, resp.ErrorMessage)
	}
	return nil
}

// Refresh exchanges the refresh token for fresh credentials and installs
// them on the client. Twitch rotates the refresh token on every exchange.
func (h *Helix) Refresh(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	resp, err := h.client.RefreshUserAccessToken(h.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("token refresh returned status %d: %s", resp.StatusCode, resp.ErrorMessage)
	}

	h.accessToken = resp.Data.AccessToken
	h.refreshToken = resp.Data.RefreshToken
	h.client.SetUserAccessToken(resp.Data.AccessToken)

	h.logger.InfoContext(ctx, "Refreshed user access token")
	return nil
}

// ValidateCredentials checks the current access token and refreshes it when
// the platform no longer accepts it. Run on a schedule, it keeps the token
// alive across its four hour expiry.
func (h *Helix) ValidateCredentials(ctx context.Context) error {
	h.mu.Lock()
	token := h.accessToken
	h.mu.Unlock()

	isValid, resp, err := h.client.ValidateToken(token)
	if err != nil {
		return fmt.Errorf("failed to validate access token: %w", err)
	}
	if isValid {
		h.logger.DebugContext(ctx, "Access token is valid", "expires_in", resp.Data.ExpiresIn)
		return nil
	}

	h.logger.WarnContext(ctx, "Access token rejected, refreshing")
	if err := h.Refresh(ctx); err != nil {
		return fmt.Errorf("token invalid and refresh failed: %w", err)
	}
	return nil
}
