package textgen

import (
	"errors"
	"fmt"
)

// ErrUpstream marks transport failures and non-2xx replies from the model service.
var ErrUpstream = errors.New("text generation upstream failed")

// UpstreamError carries the message reported by the model service.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("Gemini API error (%d): %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("Gemini API error: %v", e.Err)
	default:
		return "Gemini API error: " + e.Message
	}
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}

// MalformedResponseError is returned when a reply does not match the
// expected line grammar. Raw holds the reply verbatim.
type MalformedResponseError struct {
	Grammar string
	Missing []string
	Reason  string
	Raw     string
}

func (e *MalformedResponseError) Error() string {
	msg := "malformed AI response for " + e.Grammar
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf(": missing %v", e.Missing)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsMalformed reports whether err wraps a MalformedResponseError.
func IsMalformed(err error) bool {
	var m *MalformedResponseError
	return errors.As(err, &m)
}
