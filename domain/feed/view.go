package feed

import (
	"time"

	"afmdash/domain/analysis"
	"afmdash/domain/core"
	"afmdash/domain/curves"
)

// Phase of the curve loading state machine
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
)

// Outcome is how a loading phase ended
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeComplete Outcome = "complete"
	OutcomeError    Outcome = "error"
	OutcomeTimedOut Outcome = "timed_out"
	OutcomeClosed   Outcome = "closed"
)

// View is an immutable published snapshot of the streaming core. Slices are
// shared with the controller and must be treated as read-only.
type View struct {
	Version        int64                     `json:"version"`
	SessionID      core.SessionID            `json:"session_id"`
	Status         analysis.ConnectionStatus `json:"status"`
	Phase          Phase                     `json:"phase"`
	LastOutcome    Outcome                   `json:"last_outcome"`
	Datasets       curves.Datasets           `json:"datasets"`
	FilterDefaults analysis.FilterDefaults   `json:"filter_defaults"`
	Metadata       curves.Metadata           `json:"metadata"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// FamilySummary is the compact per-family part of a view event
type FamilySummary struct {
	Curves int                `json:"curves"`
	Domain curves.DomainRange `json:"domain"`
}

// Summary is the compact form of a View pushed to browsers
type Summary struct {
	Version     int64                           `json:"version"`
	SessionID   string                          `json:"session_id"`
	Status      analysis.ConnectionStatus       `json:"status"`
	Phase       Phase                           `json:"phase"`
	LastOutcome Outcome                         `json:"last_outcome,omitempty"`
	Families    map[curves.Family]FamilySummary `json:"families"`
}

// Summarize reduces a view to counts and domains
func (v View) Summarize() Summary {
	families := make(map[curves.Family]FamilySummary, len(curves.Families))
	for _, f := range curves.Families {
		families[f] = FamilySummary{Curves: v.Datasets.CurveCount(f), Domain: v.Datasets.Domain(f)}
	}
	return Summary{
		Version:     v.Version,
		SessionID:   v.SessionID.String(),
		Status:      v.Status,
		Phase:       v.Phase,
		LastOutcome: v.LastOutcome,
		Families:    families,
	}
}
