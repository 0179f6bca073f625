package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ── Output modes ─────────────────────────────────────────────────────────────

// Mode selects how the payload is written to the wire.
type Mode int

const (
	ModeJSON Mode = iota // serialize payload as JSON (default)
	ModeHTML             // payload rendered as text/html
	ModeRaw              // payload bytes written verbatim; caller supplies headers
	ModeStream           // body copied from Spec.Stream
)

// Spec describes one wire response: status, payload, output mode and any
// extra headers. The zero value is a valid 200 JSON "{}" response.
type Spec struct {
	Status  int
	Payload any
	Mode    Mode
	Headers map[string]string
	Stream  io.Reader
}

// ── Respond ──────────────────────────────────────────────────────────────────

// Respond writes exactly one response described by spec to w.
//
// Defaults: status 200, empty JSON object payload, JSON mode. Raw mode
// requires Headers and Stream mode requires Stream; their absence is a
// UsageError returned before anything reaches the wire, left for the
// dispatcher's catch boundary.
func Respond(w http.ResponseWriter, spec Spec) error {
	if err := spec.check(); err != nil {
		return err
	}

	status := spec.Status
	if status == 0 {
		status = http.StatusOK
	}

	for k, v := range spec.Headers {
		w.Header().Set(k, v)
	}

	switch spec.Mode {
	case ModeJSON:
		payload := spec.Payload
		if payload == nil {
			payload = struct{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusNotModified || status == http.StatusNoContent {
			return nil
		}
		return json.NewEncoder(w).Encode(payload)

	case ModeHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, err := fmt.Fprint(w, stringify(spec.Payload))
		return err

	case ModeRaw:
		w.WriteHeader(status)
		if spec.Payload == nil {
			return nil
		}
		_, err := w.Write(rawBytes(spec.Payload))
		return err

	default: // ModeStream, per check
		w.WriteHeader(status)
		_, err := io.Copy(w, spec.Stream)
		return err
	}
}

// check validates the mode's requirements up front, so a misused spec
// fails without touching headers, status or body.
func (s Spec) check() error {
	switch s.Mode {
	case ModeJSON, ModeHTML:
		return nil
	case ModeRaw:
		if s.Headers == nil {
			return &UsageError{Reason: "raw mode requires a header map"}
		}
	case ModeStream:
		if s.Stream == nil {
			return &UsageError{Reason: "stream mode requires a stream"}
		}
	default:
		return &UsageError{Reason: fmt.Sprintf("unknown output mode %d", s.Mode)}
	}
	return nil
}

// Outcome is the eventual result of an asynchronously produced response.
type Outcome struct {
	Spec Spec
	Err  error
}

// RespondFuture consumes a single-value producer and forwards the eventual
// spec, or the eventual error, exactly as the synchronous path would.
// At most one response is written per request.
func RespondFuture(w http.ResponseWriter, out <-chan Outcome) error {
	o, ok := <-out
	if !ok {
		return &UsageError{Reason: "response producer closed without a value"}
	}
	if o.Err != nil {
		return o.Err
	}
	return Respond(w, o.Spec)
}

// ── Error envelopes ──────────────────────────────────────────────────────────

// Fail writes the standard JSON error envelope: {"message": "..."} with the
// given status. Used by the dispatcher's catch boundary.
func Fail(w http.ResponseWriter, status int, message string) {
	_ = Respond(w, Spec{Status: status, Payload: envelope{"message": message}})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func rawBytes(v any) []byte {
	switch t := v.(type) {
	case []byte:
		return t
	case string:
		return []byte(t)
	default:
		return []byte(fmt.Sprint(t))
	}
}
