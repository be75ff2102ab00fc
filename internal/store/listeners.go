package store

import (
	"afmdash/domain/analysis"
)

// OnSelectedCurveChange registers fn to run whenever the selected curve id
// changes value. The returned func unsubscribes.
func (s *AnalysisStore) OnSelectedCurveChange(fn func(id string)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextListenerID
	s.nextListenerID++
	s.selectedListeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		delete(s.selectedListeners, id)
		s.listenerMu.Unlock()
	}
}

// OnChange registers fn to receive a copy of the state after every update,
// with a revision that grows by one per update. Calls for concurrent updates
// may arrive out of revision order.
func (s *AnalysisStore) OnChange(fn func(revision uint64, st analysis.State)) func() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextListenerID
	s.nextListenerID++
	s.changeListeners[id] = fn
	return func() {
		s.listenerMu.Lock()
		delete(s.changeListeners, id)
		s.listenerMu.Unlock()
	}
}

func (s *AnalysisStore) notify(rev uint64, after analysis.State, selectedChanged bool) {
	s.listenerMu.Lock()
	var selected []func(string)
	if selectedChanged {
		selected = make([]func(string), 0, len(s.selectedListeners))
		for _, fn := range s.selectedListeners {
			selected = append(selected, fn)
		}
	}
	changed := make([]func(uint64, analysis.State), 0, len(s.changeListeners))
	for _, fn := range s.changeListeners {
		changed = append(changed, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range selected {
		fn(after.SelectedCurveID)
	}
	for _, fn := range changed {
		fn(rev, after.Clone())
	}
}
