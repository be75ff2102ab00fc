package ports

import (
	"context"

	"afmdash/domain/analysis"
)

// PresetRepository persists named analysis presets
type PresetRepository interface {
	// SavePreset inserts or replaces the preset with the same name
	SavePreset(ctx context.Context, p analysis.Preset) error

	// GetPreset returns core.ErrPresetNotFound when no preset has that name
	GetPreset(ctx context.Context, name string) (*analysis.Preset, error)

	ListPresets(ctx context.Context) ([]analysis.Preset, error)

	// DeletePreset returns core.ErrPresetNotFound when nothing was deleted
	DeletePreset(ctx context.Context, name string) error
}
