package handlers

import "fmt"

// MissingInputsError reports a rule bound to a handler that requires
// additional inputs but carries none.
type MissingInputsError struct {
	RuleID int64
}

func (e *MissingInputsError) Error() string {
	return fmt.Sprintf("rule %d has no additional inputs", e.RuleID)
}

// DecodeInputsError reports a rule whose additional inputs could not be
// decoded into the shape the handler expects.
type DecodeInputsError struct {
	RuleID int64
	Err    error
}

func (e *DecodeInputsError) Error() string {
	return fmt.Sprintf("rule %d: failed to decode additional inputs: %v", e.RuleID, e.Err)
}

func (e *DecodeInputsError) Unwrap() error { return e.Err }

// UpstreamError reports a failed fetch from an external API while building
// the reply context.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s lookup failed: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
