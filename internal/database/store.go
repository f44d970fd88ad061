package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations used by the message
// pipeline. Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetEnabledRules retrieves all enabled rules applying to the given
	// handler and channel, including rules whose handler or channel is NULL
	// (meaning "any"), in insertion order ascending.
	GetEnabledRules(ctx context.Context, handler Handler, channel string) ([]Rule, error)

	// InsertRule inserts a new rule record and fills in its generated ID.
	InsertRule(ctx context.Context, rule *Rule) error

	// GetChampionByKey retrieves a cached champion record by its numeric key.
	// Returns nil, nil if not found.
	GetChampionByKey(ctx context.Context, key int64) (*Champion, error)

	// InsertChampion inserts a champion record into the cache.
	InsertChampion(ctx context.Context, champion *Champion) error

	// TruncateChampions deletes all cached champion records, used before a
	// fresh import.
	TruncateChampions(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetEnabledRules retrieves enabled rules for a handler/channel pair with
// NULL-matches-all semantics, ordered by insertion order ascending.
func (s *sqlxStore) GetEnabledRules(ctx context.Context, handler Handler, channel string) ([]Rule, error) {
	if handler == "" {
		return nil, fmt.Errorf("handler cannot be empty")
	}
	if channel == "" {
		return nil, fmt.Errorf("channel cannot be empty")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var rules []Rule
	query := `
        SELECT id, handler, pattern, case_insensitive, template, channel,
               enabled, additional_inputs, created_by, created_at, updated_at
        FROM replies
        WHERE enabled = 1
          AND (channel IS NULL OR channel = ?)
          AND (handler IS NULL OR handler = ?)
        ORDER BY id ASC;
    `

	err := s.db.SelectContext(ctx, &rules, query, channel, string(handler))

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching rules",
			"handler", handler, "channel", channel, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting enabled rules",
			"handler", handler, "channel", channel, "error", err)
		return nil, fmt.Errorf("failed to get enabled rules for handler %q in channel %q: %w", handler, channel, err)
	}

	s.logger.DebugContext(ctx, "Fetched enabled rules", "handler", handler, "channel", channel, "count", len(rules))
	return rules, nil
}

// InsertRule inserts a new rule record.
func (s *sqlxStore) InsertRule(ctx context.Context, rule *Rule) error {
	if rule == nil {
		return fmt.Errorf("cannot insert nil rule")
	}
	if rule.Pattern == "" {
		return fmt.Errorf("rule must have a non-empty pattern")
	}
	if rule.Template == "" {
		return fmt.Errorf("rule must have a non-empty template")
	}

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `
        INSERT INTO replies (handler, pattern, case_insensitive, template, channel,
                             enabled, additional_inputs, created_by, created_at, updated_at)
        VALUES (:handler, :pattern, :case_insensitive, :template, :channel,
                :enabled, :additional_inputs, :created_by, :created_at, :updated_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, rule)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting rule", "pattern", rule.Pattern, "error", err)
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		rule.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after inserting rule", "error", err)
	}

	s.logger.DebugContext(ctx, "Rule inserted successfully", "rule_id", rule.ID)
	return nil
}

// GetChampionByKey retrieves a cached champion record. Returns nil, nil if
// the key is unknown; an unknown champion is expected after patch days.
func (s *sqlxStore) GetChampionByKey(ctx context.Context, key int64) (*Champion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var champion Champion
	query := `SELECT key, version, id, name, title, blurb, info, image, tags, partype, stats
	          FROM champions WHERE key = ?`

	err := s.db.GetContext(ctx, &champion, query, key)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No champion found", "champion_key", key)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching champion",
			"champion_key", key, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting champion by key", "champion_key", key, "error", err)
		return nil, fmt.Errorf("failed to get champion for key %d: %w", key, err)
	}

	return &champion, nil
}

// InsertChampion inserts a champion record into the cache.
func (s *sqlxStore) InsertChampion(ctx context.Context, champion *Champion) error {
	if champion == nil {
		return fmt.Errorf("cannot insert nil champion")
	}

	query := `
        INSERT INTO champions (key, version, id, name, title, blurb, info, image, tags, partype, stats)
        VALUES (:key, :version, :id, :name, :title, :blurb, :info, :image, :tags, :partype, :stats);
    `

	if _, err := s.db.NamedExecContext(ctx, query, champion); err != nil {
		s.logger.ErrorContext(ctx, "Error inserting champion",
			"champion_key", champion.Key, "champion_name", champion.Name, "error", err)
		return fmt.Errorf("failed to insert champion %q: %w", champion.Name, err)
	}

	return nil
}

// TruncateChampions deletes all cached champion records.
func (s *sqlxStore) TruncateChampions(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM champions`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error truncating champions", "error", err)
		return fmt.Errorf("failed to truncate champions: %w", err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Truncated champions cache", "count", count)
	return nil
}
