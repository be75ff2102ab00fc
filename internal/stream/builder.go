package stream

import (
	"afmdash/domain/analysis"
	"afmdash/internal/protocol"
)

// Plan is a request ready to send plus the decision about stale results
type Plan struct {
	Request  protocol.Request
	Snapshot analysis.RequestSnapshot
	Reset    bool
}

// BuildRequest builds the wire request for s and decides whether results
// accumulated under prior are stale. A nil prior always resets.
func BuildRequest(s analysis.State, prior *analysis.RequestSnapshot, forceRefresh bool) Plan {
	snap := analysis.SnapshotOf(s)
	return Plan{
		Request:  protocol.NewRequest(s),
		Snapshot: snap,
		Reset:    shouldReset(prior, snap, forceRefresh),
	}
}

// Builder turns state snapshots into requests and remembers what was last
// sent. It is not safe for concurrent use; the session controller serialises
// access under its own lock so build, send and commit happen as one step.
type Builder struct {
	prior        *analysis.RequestSnapshot
	forceRefresh bool
}

// NewBuilder creates a builder with no prior request
func NewBuilder() *Builder {
	return &Builder{}
}

// Build prepares a request from one consistent state snapshot. It does not
// record anything; call Commit once the request is actually on the wire.
func (b *Builder) Build(s analysis.State) Plan {
	return BuildRequest(s, b.prior, b.forceRefresh)
}

// Commit records the plan's snapshot as the last sent configuration and
// clears any pending force-refresh
func (b *Builder) Commit(p Plan) {
	snap := p.Snapshot
	b.prior = &snap
	b.forceRefresh = false
}

// ForceRefresh makes the next plan reset accumulated results
func (b *Builder) ForceRefresh() {
	b.forceRefresh = true
}

// Forget drops the prior snapshot so a new session starts clean
func (b *Builder) Forget() {
	b.prior = nil
}

// Prior returns the last committed snapshot, if any
func (b *Builder) Prior() (analysis.RequestSnapshot, bool) {
	if b.prior == nil {
		return analysis.RequestSnapshot{}, false
	}
	return *b.prior, true
}

func shouldReset(prior *analysis.RequestSnapshot, next analysis.RequestSnapshot, forceRefresh bool) bool {
	if forceRefresh || prior == nil {
		return true
	}
	if prior.NumCurves != next.NumCurves {
		return true
	}
	return !prior.FiltersEqual(next)
}
