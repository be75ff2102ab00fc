package analysis

import (
	"afmdash/domain/core"
)

// RequestSnapshot captures the configuration of the last sent request so the
// next one can tell whether accumulated results are stale
type RequestSnapshot struct {
	Regular          FilterConfig `json:"regular"`
	CPFilters        FilterConfig `json:"cp_filters"`
	ForceModels      FilterConfig `json:"f_models"`
	ElasticityModels FilterConfig `json:"e_models"`
	NumCurves        int          `json:"num_curves"`
}

// SnapshotOf captures the request-relevant part of a state
func SnapshotOf(s State) RequestSnapshot {
	return RequestSnapshot{
		Regular:          orEmpty(s.Filters.Regular.Clone()),
		CPFilters:        orEmpty(s.Filters.CPFilters.Clone()),
		ForceModels:      orEmpty(s.Filters.ForceModels.Clone()),
		ElasticityModels: orEmpty(s.Filters.ElasticityModels.Clone()),
		NumCurves:        s.NumCurves,
	}
}

// Fingerprint hashes the canonical (sorted-key) JSON form of the snapshot
func (r RequestSnapshot) Fingerprint() core.Hash {
	h, err := core.CanonicalHash(r)
	if err != nil {
		// unencodable filter values never compare equal to anything
		return ""
	}
	return h
}

// FiltersEqual compares the four filter families structurally, ignoring key order
func (r RequestSnapshot) FiltersEqual(other RequestSnapshot) bool {
	a := r
	b := other
	a.NumCurves, b.NumCurves = 0, 0
	ha, hb := a.Fingerprint(), b.Fingerprint()
	return !ha.IsEmpty() && ha.Equals(hb)
}
