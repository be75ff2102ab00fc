package stream

import (
	"afmdash/domain/feed"
)

// Effect is a side effect requested by Reduce
type Effect interface {
	effectName() string
}

// LogLevel of a Log effect
type LogLevel int

const (
	LogWarn LogLevel = iota
	LogInfo
	LogDebug
)

// SelectCurves replaces the highlighted curve ids
type SelectCurves struct {
	IDs []string
}

// LoadingDone ends the current loading phase and disarms its timeout
type LoadingDone struct {
	Outcome feed.Outcome
}

// ReportError surfaces a backend message to the error channel
type ReportError struct {
	Message string
}

// Log asks the caller to record an informational message
type Log struct {
	Level   LogLevel
	Message string
}

func (SelectCurves) effectName() string { return "SelectCurves" }
func (LoadingDone) effectName() string  { return "LoadingDone" }
func (ReportError) effectName() string  { return "ReportError" }
func (Log) effectName() string          { return "Log" }
