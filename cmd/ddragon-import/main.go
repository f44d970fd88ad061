// Package main imports the Data Dragon champion dataset into the local
// champion cache. Run it after every game patch to keep lookups current.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/ostuni/ripbot/internal/database"
	"github.com/ostuni/ripbot/internal/logger"
)

const ddragonBaseURL = "https://ddragon.leagueoflegends.com"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

func run(ctx context.Context) int {
	dbPath := flag.String("db", "ripbot.db", "Path to the SQLite database file")
	version := flag.String("version", "", "Data Dragon version to import (default: latest)")
	flag.Parse()

	log := logger.NewLogger("info", "text")

	db, err := database.NewDB(*dbPath)
	if err != nil {
		log.Error("Failed to connect to database", "path", *dbPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	client := &http.Client{Timeout: 30 * time.Second}

	ver := *version
	if ver == "" {
		ver, err = latestVersion(ctx, client)
		if err != nil {
			log.Error("Failed to resolve latest version", "error", err)
			return 1
		}
	}
	log.Info("Importing champions", "version", ver)

	champions, err := fetchChampions(ctx, client, ver)
	if err != nil {
		log.Error("Failed to fetch champion data", "version", ver, "error", err)
		return 1
	}

	if err := store.TruncateChampions(ctx); err != nil {
		log.Error("Failed to truncate champion cache", "error", err)
		return 1
	}

	for _, champion := range champions {
		if err := store.InsertChampion(ctx, champion); err != nil {
			log.Error("Failed to insert champion", "champion", champion.Name, "error", err)
			return 1
		}
	}

	log.Info("Champion import complete", "count", len(champions))
	return 0
}

func latestVersion(ctx context.Context, client *http.Client) (string, error) {
	var versions []string
	if err := getJSON(ctx, client, ddragonBaseURL+"/api/versions.json", &versions); err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("versions list is empty")
	}
	return versions[0], nil
}

// championEntry mirrors one champion object of the champion.json dataset.
// The numeric key arrives as a string and the nested objects are kept as raw
// JSON, stored verbatim for the reply templates to pick apart.
type championEntry struct {
	Version string          `json:"version"`
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Blurb   string          `json:"blurb"`
	Info    json.RawMessage `json:"info"`
	Image   json.RawMessage `json:"image"`
	Tags    json.RawMessage `json:"tags"`
	Partype string          `json:"partype"`
	Stats   json.RawMessage `json:"stats"`
}

func fetchChampions(ctx context.Context, client *http.Client, version string) ([]*database.Champion, error) {
	var payload struct {
		Data map[string]championEntry `json:"data"`
	}

	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", ddragonBaseURL, version)
	if err := getJSON(ctx, client, url, &payload); err != nil {
		return nil, err
	}

	champions := make([]*database.Champion, 0, len(payload.Data))
	for _, entry := range payload.Data {
		key, err := strconv.ParseInt(entry.Key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("champion %q has non-numeric key %q: %w", entry.Name, entry.Key, err)
		}

		champions = append(champions, &database.Champion{
			Key:     key,
			Version: entry.Version,
			ID:      entry.ID,
			Name:    entry.Name,
			Title:   entry.Title,
			Blurb:   entry.Blurb,
			Info:    types.JSONText(entry.Info),
			Image:   types.JSONText(entry.Image),
			Tags:    types.JSONText(entry.Tags),
			Partype: entry.Partype,
			Stats:   types.JSONText(entry.Stats),
		})
	}
	return champions, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("Error closing response body", "url", url, "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned status %d: %s", url, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
