package store

import (
	"sync"

	"afmdash/domain/analysis"
)

// LoadingKind names one of the dashboard's busy indicators
type LoadingKind string

const (
	LoadingCurves LoadingKind = "curves"
	LoadingImport LoadingKind = "import"
	LoadingExport LoadingKind = "export"
)

// AnalysisStore is the process-wide shared analysis state. Reads return deep
// copies, composite writes go through Update, and listeners are called after
// the lock is released so they may read or write the store themselves.
type AnalysisStore struct {
	mu       sync.RWMutex
	state    analysis.State
	revision uint64

	listenerMu        sync.Mutex
	nextListenerID    int
	selectedListeners map[int]func(string)
	changeListeners   map[int]func(uint64, analysis.State)
}

// New creates a store seeded with initial
func New(initial analysis.State) *AnalysisStore {
	return &AnalysisStore{
		state:             initial.Clone(),
		selectedListeners: make(map[int]func(string)),
		changeListeners:   make(map[int]func(uint64, analysis.State)),
	}
}

// NewDefault creates a store with backend-aligned defaults
func NewDefault() *AnalysisStore {
	return New(analysis.DefaultState())
}

// Snapshot returns one consistent deep copy of the whole state
func (s *AnalysisStore) Snapshot() analysis.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies fn atomically. fn must not call back into the store.
func (s *AnalysisStore) Update(fn func(*analysis.State)) {
	s.mu.Lock()
	prevSelected := s.state.SelectedCurveID
	fn(&s.state)
	if s.state.NumCurves <= 0 {
		s.state.NumCurves = analysis.DefaultNumCurves
	}
	selected := s.state.SelectedCurveID
	s.revision++
	rev := s.revision
	after := s.state.Clone()
	s.mu.Unlock()

	s.notify(rev, after, prevSelected != selected)
}

// SetFilters replaces only the families present in patch
func (s *AnalysisStore) SetFilters(patch map[analysis.FilterFamily]analysis.FilterConfig) {
	s.Update(func(st *analysis.State) {
		for family, cfg := range patch {
			cfg = cfg.Clone()
			if cfg == nil {
				cfg = analysis.FilterConfig{}
			}
			switch family {
			case analysis.FamilyRegular:
				st.Filters.Regular = cfg
			case analysis.FamilyContactPoint:
				st.Filters.CPFilters = cfg
			case analysis.FamilyForceModels:
				st.Filters.ForceModels = cfg
			case analysis.FamilyElasticityModels:
				st.Filters.ElasticityModels = cfg
			}
		}
	})
}

// ReplaceFilters swaps all four families at once
func (s *AnalysisStore) ReplaceFilters(f analysis.Filters) {
	s.SetFilters(map[analysis.FilterFamily]analysis.FilterConfig{
		analysis.FamilyRegular:          f.Regular,
		analysis.FamilyContactPoint:     f.CPFilters,
		analysis.FamilyForceModels:      f.ForceModels,
		analysis.FamilyElasticityModels: f.ElasticityModels,
	})
}

func (s *AnalysisStore) SetElasticityParams(p analysis.ElasticityParams) {
	s.Update(func(st *analysis.State) { st.ElasticityParams = p })
}

func (s *AnalysisStore) SetElasticModelParams(p analysis.ElasticModelParams) {
	s.Update(func(st *analysis.State) { st.ElasticModelParams = p })
}

func (s *AnalysisStore) SetForceModelParams(p analysis.ForceModelParams) {
	s.Update(func(st *analysis.State) { st.ForceModelParams = p })
}

// SetNumCurves sets the requested curve count; non-positive values fall back
// to the default
func (s *AnalysisStore) SetNumCurves(n int) {
	s.Update(func(st *analysis.State) { st.NumCurves = n })
}

func (s *AnalysisStore) SetSelectedCurveID(id string) {
	s.Update(func(st *analysis.State) { st.SelectedCurveID = id })
}

func (s *AnalysisStore) SetSelectedCurveIDs(ids []string) {
	s.Update(func(st *analysis.State) { st.SelectedCurveIDs = append([]string{}, ids...) })
}

func (s *AnalysisStore) SetSelectedExportCurveIDs(ids []string) {
	s.Update(func(st *analysis.State) { st.SelectedExportCurveIDs = append([]string{}, ids...) })
}

func (s *AnalysisStore) SetZeroForce(on bool) {
	s.Update(func(st *analysis.State) { st.SetZeroForce = on })
}

// SetLoading toggles one loading flag
func (s *AnalysisStore) SetLoading(kind LoadingKind, on bool) {
	s.Update(func(st *analysis.State) { setLoading(st, kind, on) })
}

func setLoading(st *analysis.State, kind LoadingKind, on bool) {
	switch kind {
	case LoadingCurves:
		st.Loading.Curves = on
	case LoadingImport:
		st.Loading.Import = on
	case LoadingExport:
		st.Loading.Export = on
	}
}

func (s *AnalysisStore) SetConnectionStatus(status analysis.ConnectionStatus) {
	s.Update(func(st *analysis.State) { st.ConnectionStatus = status })
}

func (s *AnalysisStore) SetLastSocketError(msg string) {
	s.Update(func(st *analysis.State) { st.LastSocketError = msg })
}

func (s *AnalysisStore) SetError(msg string) {
	s.Update(func(st *analysis.State) { st.Error = msg })
}

// Reset restores the default analysis settings. Loading flags and the
// connection fields describe work in progress and are kept.
func (s *AnalysisStore) Reset() {
	s.Update(func(st *analysis.State) {
		loading, status, lastErr := st.Loading, st.ConnectionStatus, st.LastSocketError
		*st = analysis.DefaultState()
		st.Loading, st.ConnectionStatus, st.LastSocketError = loading, status, lastErr
	})
}
