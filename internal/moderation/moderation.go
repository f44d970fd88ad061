// Package moderation deletes chat messages that are mostly emoji or mostly
// non-ASCII symbols, the usual shape of copypasta spam and ASCII art.
// Analysis works on grapheme clusters rather than runes so multi-codepoint
// emoji count once.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"

	"github.com/ostuni/ripbot/internal/chat"
)

// ErrUnauthorized signals that the deletion call was rejected for stale
// credentials. Transport adapters wrap their 401 responses with it.
var ErrUnauthorized = errors.New("unauthorized")

// Graphemes that read as non-ASCII to a byte counter but are harmless in
// ordinary chat: the Twitch chatterino suffix tag, the ellipsis, the
// full-width question mark and the Cyrillic о used in "о7".
var whitelist = map[string]struct{}{
	"\U000E0000": {},
	"…":          {},
	"？":          {},
	"о":          {},
}

var mentionPattern = regexp.MustCompile(`@\w+`)

// Stats summarizes a message body by grapheme class.
type Stats struct {
	Whitespace  int
	Alnum       int
	Symbols     int
	Emoji       int
	NonASCII    int // non-ASCII, non-emoji, non-whitelisted
	Whitelisted int
}

// Analyze classifies every grapheme cluster of text. Mentions should be
// stripped beforehand so "@LongUserName" does not dilute the ratio.
func Analyze(text string) Stats {
	var stats Stats

	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)

		switch {
		case isWhitespace(cluster):
			stats.Whitespace++
		case isASCII(cluster):
			if isASCIIAlnum(cluster) {
				stats.Alnum++
			} else {
				stats.Symbols++
			}
		default:
			if _, ok := whitelist[cluster]; ok {
				stats.Whitelisted++
				continue
			}
			if gomoji.ContainsEmoji(cluster) {
				stats.Emoji++
			} else {
				stats.NonASCII++
			}
		}
	}

	return stats
}

// ShouldDelete applies the spam heuristic. A message made of nothing but
// emoji and whitespace is deleted when the emoji count exceeds maxEmoji.
// Anything else is deleted when non-ASCII graphemes exceed maxNonASCIIPct
// percent of the visible graphemes. Emoji never count toward the ratio, and
// whitelisted graphemes count toward neither side of it.
func (s Stats) ShouldDelete(maxEmoji int, maxNonASCIIPct float64) bool {
	if s.Alnum == 0 && s.Symbols == 0 && s.NonASCII == 0 && s.Whitelisted == 0 {
		return s.Emoji > maxEmoji
	}

	denom := s.NonASCII + s.Alnum + s.Symbols
	if denom == 0 {
		return false
	}
	return float64(s.NonASCII)/float64(denom)*100 > maxNonASCIIPct
}

// StripMentions removes @name tokens from text.
func StripMentions(text string) string {
	return mentionPattern.ReplaceAllString(text, "")
}

func isWhitespace(cluster string) bool {
	for _, r := range cluster {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func isASCII(cluster string) bool {
	for i := 0; i < len(cluster); i++ {
		if cluster[i] > 127 {
			return false
		}
	}
	return true
}

func isASCIIAlnum(cluster string) bool {
	if len(cluster) != 1 {
		return false
	}
	c := cluster[0]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Deleter removes a chat message from a channel.
type Deleter interface {
	DeleteMessage(ctx context.Context, channel, messageID string) error
}

// CredentialRefresher renews the credentials the Deleter operates with.
type CredentialRefresher interface {
	Refresh(ctx context.Context) error
}

// Filter inspects messages and deletes the ones the heuristic flags.
type Filter struct {
	deleter        Deleter
	refresher      CredentialRefresher
	maxEmoji       int
	maxNonASCIIPct float64
	logger         *slog.Logger

	mu sync.Mutex // serializes credential refresh
}

// NewFilter creates a Filter with the given thresholds.
func NewFilter(deleter Deleter, refresher CredentialRefresher, maxEmoji int, maxNonASCIIPct float64, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Filter{
		deleter:        deleter,
		refresher:      refresher,
		maxEmoji:       maxEmoji,
		maxNonASCIIPct: maxNonASCIIPct,
		logger:         logger.With("component", "moderation"),
	}
}

// Inspect analyzes the message and deletes it when flagged. Moderators and
// the broadcaster are exempt. A deletion rejected for stale credentials is
// retried exactly once after a refresh.
func (f *Filter) Inspect(ctx context.Context, msg chat.Message) (bool, error) {
	if f.deleter == nil {
		return false, nil
	}
	if msg.Sender.IsPrivileged() {
		return false, nil
	}

	stats := Analyze(StripMentions(msg.Text()))
	if !stats.ShouldDelete(f.maxEmoji, f.maxNonASCIIPct) {
		return false, nil
	}

	err := f.deleter.DeleteMessage(ctx, msg.Channel, msg.ID)
	if errors.Is(err, ErrUnauthorized) && f.refresher != nil {
		f.logger.WarnContext(ctx, "Message deletion unauthorized, refreshing credentials",
			"channel", msg.Channel, "message_id", msg.ID)

		f.mu.Lock()
		refreshErr := f.refresher.Refresh(ctx)
		f.mu.Unlock()
		if refreshErr != nil {
			return false, fmt.Errorf("failed to refresh credentials: %w", refreshErr)
		}

		err = f.deleter.DeleteMessage(ctx, msg.Channel, msg.ID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete message %s: %w", msg.ID, err)
	}

	f.logger.InfoContext(ctx, "Deleted message",
		"channel", msg.Channel, "sender", msg.Sender.Login,
		"emoji", stats.Emoji, "non_ascii", stats.NonASCII)
	return true, nil
}
