// Package matcher selects the reply rule applying to an incoming message.
// A message must match exactly one enabled rule; zero matches alongside
// pattern compilation errors, or two or more matches, are reported as typed
// errors so the caller can log the ambiguity instead of replying twice.
package matcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ostuni/ripbot/internal/chat"
	"github.com/ostuni/ripbot/internal/database"
)

// RuleSource provides the enabled rules for a handler/channel pair.
type RuleSource interface {
	GetEnabledRules(ctx context.Context, handler database.Handler, channel string) ([]database.Rule, error)
}

// RegexError records a rule whose stored pattern failed to compile.
type RegexError struct {
	RuleID  int64
	Pattern string
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("rule %d: invalid pattern %q: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *RegexError) Unwrap() error { return e.Err }

// NoMatchError is returned when no rule matched but at least one pattern
// failed to compile, so the absence of a match cannot be trusted.
type NoMatchError struct {
	Errors []*RegexError
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no rule matched, but %d pattern(s) failed to compile", len(e.Errors))
}

// AmbiguousMatchError is returned when two or more rules matched the same
// message. Replying would be arbitrary, so the message is skipped.
type AmbiguousMatchError struct {
	Rules []database.Rule
}

func (e *AmbiguousMatchError) Error() string {
	ids := make([]string, len(e.Rules))
	for i, r := range e.Rules {
		ids[i] = fmt.Sprintf("%d", r.ID)
	}
	return fmt.Sprintf("message matched %d rules (ids %s)", len(e.Rules), strings.Join(ids, ", "))
}

// Matcher evaluates enabled rules against messages.
type Matcher struct {
	rules  RuleSource
	logger *slog.Logger
}

// New creates a Matcher backed by the given rule source.
func New(rules RuleSource, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Matcher{
		rules:  rules,
		logger: logger.With("component", "matcher"),
	}
}

// Match returns the single enabled rule whose pattern matches the message
// text, or nil when no rule matches and every pattern compiled cleanly.
// Patterns are evaluated in rule insertion order. A rule flagged
// case-insensitive is compiled with the (?i) flag.
//
// When exactly one rule matches, compilation failures in other rules are
// logged and the match is still returned.
func (m *Matcher) Match(ctx context.Context, handler database.Handler, msg chat.Message) (*database.Rule, error) {
	rules, err := m.rules.GetEnabledRules(ctx, handler, msg.Channel)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	text := msg.Text()

	var matched []database.Rule
	var regexErrs []*RegexError

	for _, rule := range rules {
		pattern := rule.Pattern
		if rule.CaseInsensitive {
			pattern = "(?i)" + pattern
		}

		re, compileErr := regexp.Compile(pattern)
		if compileErr != nil {
			regexErrs = append(regexErrs, &RegexError{RuleID: rule.ID, Pattern: rule.Pattern, Err: compileErr})
			continue
		}

		if re.MatchString(text) {
			matched = append(matched, rule)
		}
	}

	switch {
	case len(matched) == 1:
		for _, regexErr := range regexErrs {
			m.logger.WarnContext(ctx, "Skipped rule with invalid pattern",
				"rule_id", regexErr.RuleID, "pattern", regexErr.Pattern, "error", regexErr.Err)
		}
		rule := matched[0]
		return &rule, nil

	case len(matched) > 1:
		return nil, &AmbiguousMatchError{Rules: matched}

	case len(regexErrs) > 0:
		return nil, &NoMatchError{Errors: regexErrs}
	}

	return nil, nil
}
