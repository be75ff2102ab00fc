package app

import (
	"context"

	"afmdash/domain/analysis"
	apperrors "afmdash/internal/errors"
	"afmdash/internal/store"
	"afmdash/ports"
)

// PresetService saves the current analysis configuration under a name and
// restores it later. A nil repository disables every operation.
type PresetService struct {
	repo  ports.PresetRepository
	store *store.AnalysisStore
}

// NewPresetService creates a preset service; repo may be nil
func NewPresetService(repo ports.PresetRepository, st *store.AnalysisStore) *PresetService {
	return &PresetService{repo: repo, store: st}
}

// Enabled reports whether presets are persisted
func (s *PresetService) Enabled() bool {
	return s.repo != nil
}

// Save stores the current configuration as name
func (s *PresetService) Save(ctx context.Context, name string) (analysis.Preset, error) {
	if !s.Enabled() {
		return analysis.Preset{}, apperrors.Disabled("preset persistence")
	}
	if err := analysis.ValidatePresetName(name); err != nil {
		return analysis.Preset{}, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	p := analysis.PresetFrom(name, s.store.Snapshot())
	if err := s.repo.SavePreset(ctx, p); err != nil {
		return analysis.Preset{}, err
	}
	return p, nil
}

// Apply loads preset name into the shared state
func (s *PresetService) Apply(ctx context.Context, name string) (analysis.Preset, error) {
	if !s.Enabled() {
		return analysis.Preset{}, apperrors.Disabled("preset persistence")
	}
	p, err := s.repo.GetPreset(ctx, name)
	if err != nil {
		return analysis.Preset{}, err
	}
	s.store.Update(p.ApplyTo)
	return *p, nil
}

// List returns every stored preset
func (s *PresetService) List(ctx context.Context) ([]analysis.Preset, error) {
	if !s.Enabled() {
		return nil, apperrors.Disabled("preset persistence")
	}
	return s.repo.ListPresets(ctx)
}

// Delete removes preset name
func (s *PresetService) Delete(ctx context.Context, name string) error {
	if !s.Enabled() {
		return apperrors.Disabled("preset persistence")
	}
	return s.repo.DeletePreset(ctx, name)
}
