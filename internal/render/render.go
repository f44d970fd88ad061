// Package render turns a rule's stored template and a handler-built context
// into the final reply text.
package render

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// ErrEmptyOutput is returned when a template renders to an empty string after
// trimming. An empty reply almost always means a broken rule template, so it
// surfaces as an error instead of silently sending nothing.
var ErrEmptyOutput = errors.New("template rendered to empty output")

// TemplateError wraps a template parse or execution failure for a rule.
type TemplateError struct {
	RuleID int64
	Err    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("rule %d: template error: %v", e.RuleID, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Renderer parses and executes reply templates with the shared filter set.
type Renderer struct {
	funcs    template.FuncMap
	location *time.Location
}

// New creates a Renderer. Timestamps formatted without an explicit zone use
// the given location; pass nil for UTC.
func New(location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	r := &Renderer{location: location}
	r.funcs = builtinFuncs(r)
	return r
}

// Render executes the rule template against data and returns the trimmed
// output. An empty result returns ErrEmptyOutput.
func (r *Renderer) Render(ruleID int64, text string, data any) (string, error) {
	tmpl, err := template.New("reply").Funcs(r.funcs).Parse(text)
	if err != nil {
		return "", &TemplateError{RuleID: ruleID, Err: err}
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{RuleID: ruleID, Err: err}
	}

	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", ErrEmptyOutput
	}
	return out, nil
}
