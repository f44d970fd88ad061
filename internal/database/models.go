package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Handler identifies which content handler a reply rule belongs to. A rule
// with a NULL handler applies to every handler.
type Handler string

const (
	HandlerNpc      Handler = "npc"
	HandlerGamba    Handler = "gamba"
	HandlerGg       Handler = "gg"
	HandlerSniffa   Handler = "sniffa"
	HandlerTheGrind Handler = "the_grind"
)

// Rule is a persisted auto-reply rule: a regular expression matched against
// incoming chat messages and a template rendered when the pattern matches.
// Rules are created and edited out-of-band; the pipeline only reads them.
type Rule struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Handler          sql.NullString     `db:"handler"`
	Pattern          string             `db:"pattern"`
	CaseInsensitive  bool               `db:"case_insensitive"`
	Template         string             `db:"template"`
	Channel          sql.NullString     `db:"channel"` // NULL means every channel
	Enabled          bool               `db:"enabled"`
	AdditionalInputs types.NullJSONText `db:"additional_inputs"`
	CreatedBy        string             `db:"created_by"`
}

// Champion is a cached static reference record imported from the Data Dragon
// dataset, keyed by the numeric champion key reported in match data. The
// nested objects are stored as JSON blobs and decoded by the consumer.
type Champion struct {
	Key     int64          `db:"key"`
	Version string         `db:"version"`
	ID      string         `db:"id"`
	Name    string         `db:"name"`
	Title   string         `db:"title"`
	Blurb   string         `db:"blurb"`
	Info    types.JSONText `db:"info"`
	Image   types.JSONText `db:"image"`
	Tags    types.JSONText `db:"tags"`
	Partype string         `db:"partype"`
	Stats   types.JSONText `db:"stats"`
}
