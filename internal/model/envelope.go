package model

// ErrorKind classifies gateway failures. Each kind maps to exactly one HTTP
// status class so callers can rely on status codes in addition to the body.
type ErrorKind string

const (
	// ErrKindConfig covers misconfiguration detected before any network
	// call (missing base URL, editor URL, head deployment URL).
	ErrKindConfig ErrorKind = "configuration"

	// ErrKindUpstream covers an unreachable or HTML-answering script
	// deployment (404, text/html content type, markup-prefixed body).
	ErrKindUpstream ErrorKind = "upstream"

	// ErrKindMalformed covers a 2xx upstream response whose body is not
	// valid JSON.
	ErrKindMalformed ErrorKind = "malformed_response"

	// ErrKindBusiness covers upstream JSON that explicitly carries an
	// error field.
	ErrKindBusiness ErrorKind = "business"

	// ErrKindProvider covers suggestion-provider failures.
	ErrKindProvider ErrorKind = "provider"
)

// Envelope is the single normalized shape every gateway response uses,
// regardless of how the upstream script behaved. Success carries Data;
// failure carries Error plus optional diagnostics.
type Envelope struct {
	Data interface{} `json:"data,omitempty"`

	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`

	// Preview holds a bounded excerpt of a non-JSON upstream body.
	Preview string `json:"preview,omitempty"`

	// GoogleStatus is the raw upstream HTTP status, reported when the
	// script deployment answered with an error page.
	GoogleStatus int `json:"google_status,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data interface{}) Envelope {
	return Envelope{Data: data}
}

// Empty returns a well-formed success envelope with no payload. Used for
// preflight requests and action-less calls, which are no-ops by contract.
func Empty() Envelope {
	return Envelope{Data: map[string]interface{}{}}
}
