// Package audit records who touched which patient record and how. Entries
// are emitted as structured zerolog events tagged with the session id of the
// running process.
package audit

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Actions recorded by the patient service.
const (
	ActionCreate   = "create"
	ActionRead     = "read"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionSearch   = "search"
	ActionDiagnose = "diagnose"
	ActionLoad     = "load"
	ActionSave     = "save"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry is one audited operation.
type Entry struct {
	SessionID string
	Action    string
	PatientID string // empty for collection-wide actions
	Outcome   string
	Detail    string
	Timestamp time.Time
}

// Recorder persists audit entries.
type Recorder interface {
	RecordAccess(entry Entry) error
}

// RecorderFunc is a function adapter for Recorder.
type RecorderFunc func(entry Entry) error

func (f RecorderFunc) RecordAccess(entry Entry) error {
	return f(entry)
}

// Nop discards every entry.
var Nop Recorder = RecorderFunc(func(Entry) error { return nil })

// NewSessionID returns a fresh identifier for one run of the program.
func NewSessionID() string {
	return uuid.New().String()
}

// PatientRef formats a patient id for Entry.PatientID.
func PatientRef(id int) string {
	return strconv.Itoa(id)
}

// LogRecorder writes entries to a zerolog logger.
type LogRecorder struct {
	logger    zerolog.Logger
	sessionID string
	now       func() time.Time
}

// NewLogRecorder creates a recorder that stamps every entry with sessionID.
func NewLogRecorder(logger zerolog.Logger, sessionID string) *LogRecorder {
	return &LogRecorder{
		logger:    logger.With().Str("component", "audit").Logger(),
		sessionID: sessionID,
		now:       time.Now,
	}
}

func (r *LogRecorder) RecordAccess(entry Entry) error {
	if entry.SessionID == "" {
		entry.SessionID = r.sessionID
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}

	evt := r.logger.Info()
	if entry.Outcome == OutcomeFailure {
		evt = r.logger.Warn()
	}
	evt = evt.
		Str("session_id", entry.SessionID).
		Str("action", entry.Action).
		Str("outcome", entry.Outcome).
		Time("recorded", entry.Timestamp)
	if entry.PatientID != "" {
		evt = evt.Str("patient_id", entry.PatientID)
	}
	if entry.Detail != "" {
		evt = evt.Str("detail", entry.Detail)
	}
	evt.Msg("patient record access")
	return nil
}
