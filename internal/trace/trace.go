// Package trace allocates correlation ids for a run of scan/indent calls,
// so log lines emitted across a single host invocation can be grouped
// together when diagnosing an indentation decision after the fact. It
// follows the teacher's use of google/uuid (internal/evaluator/
// builtins_uuid.go), trading that package's v4-random uuidNew for the
// time-ordered uuid.NewV7, since a trace id benefits from sorting roughly
// by creation time across a log file the way v4's randomness does not.
package trace

import "github.com/google/uuid"

// Session correlates every scan and indent call made during one host
// invocation (one editor keystroke, one CLI run) under a single id.
type Session struct {
	id uuid.UUID
}

// NewSession allocates a new, time-ordered session id.
func NewSession() Session {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system clock/entropy source is
		// unreadable; fall back to a random id rather than panicking.
		id = uuid.New()
	}
	return Session{id: id}
}

// ID returns the session's correlation id.
func (s Session) ID() uuid.UUID { return s.id }

// String renders the session id in its standard 8-4-4-4-12 form, for
// inclusion in a log line.
func (s Session) String() string { return s.id.String() }

// Event is one traced scan or indent decision within a session, ready for
// structured logging.
type Event struct {
	Session string `json:"session"`
	Phase   string `json:"phase"`
	Pos     int    `json:"pos"`
	Detail  string `json:"detail"`
}

// Trace builds an Event tying a position and a human-readable detail
// string to this session, for a caller to log.
func (s Session) Trace(phase string, pos int, detail string) Event {
	return Event{Session: s.String(), Phase: phase, Pos: pos, Detail: detail}
}
