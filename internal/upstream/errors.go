package upstream

import (
	"shoppinglist/internal/model"
)

// ScriptError describes a failed exchange with the Apps Script deployment in
// envelope terms. Every failure the client can produce is classified into one
// model.ErrorKind so the gateway maps it onto a single status policy.
type ScriptError struct {
	Op      string // Operation that caused the error
	Kind    model.ErrorKind
	Message string // User-facing message, Portuguese like the rest of the wire contract
	Details string
	Hint    string
	Preview string // Bounded excerpt of a non-JSON body
	Status  int    // Raw upstream HTTP status, when a request was made
	Err     error  // Original error
}

// Error implements the error interface
func (e *ScriptError) Error() string {
	if e.Err == nil {
		return "appsscript " + e.Op + ": " + e.Message
	}
	return "appsscript " + e.Op + ": " + e.Message + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Envelope converts the error into the gateway wire shape.
func (e *ScriptError) Envelope() model.Envelope {
	return model.Envelope{
		Error:        e.Message,
		Details:      e.Details,
		Hint:         e.Hint,
		Preview:      e.Preview,
		GoogleStatus: e.Status,
	}
}
