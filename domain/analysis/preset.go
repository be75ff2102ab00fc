package analysis

import (
	"strings"
	"time"

	"afmdash/domain/core"
)

// Preset is a named, reusable analysis configuration
type Preset struct {
	Name               string             `json:"name" yaml:"name" toml:"name"`
	Filters            Filters            `json:"filters" yaml:"filters" toml:"filters"`
	ElasticityParams   ElasticityParams   `json:"elasticity_params" yaml:"elasticity_params" toml:"elasticity_params"`
	ElasticModelParams ElasticModelParams `json:"elastic_model_params" yaml:"elastic_model_params" toml:"elastic_model_params"`
	ForceModelParams   ForceModelParams   `json:"force_model_params" yaml:"force_model_params" toml:"force_model_params"`
	NumCurves          int                `json:"num_curves" yaml:"num_curves" toml:"num_curves"`
	SetZeroForce       bool               `json:"set_zero_force" yaml:"set_zero_force" toml:"set_zero_force"`
	CreatedAt          time.Time          `json:"created_at" yaml:"-" toml:"-"`
	UpdatedAt          time.Time          `json:"updated_at" yaml:"-" toml:"-"`
}

// PresetFrom captures the configuration part of a state under name
func PresetFrom(name string, s State) Preset {
	return Preset{
		Name:               name,
		Filters:            s.Filters.Clone(),
		ElasticityParams:   s.ElasticityParams,
		ElasticModelParams: s.ElasticModelParams,
		ForceModelParams:   s.ForceModelParams,
		NumCurves:          s.NumCurves,
		SetZeroForce:       s.SetZeroForce,
	}
}

// ApplyTo overwrites the configuration fields of s. Selection, loading and
// connection fields are untouched.
func (p Preset) ApplyTo(s *State) {
	f := p.Filters.Clone()
	s.Filters = Filters{
		Regular:          orEmpty(f.Regular),
		CPFilters:        orEmpty(f.CPFilters),
		ForceModels:      orEmpty(f.ForceModels),
		ElasticityModels: orEmpty(f.ElasticityModels),
	}
	s.ElasticityParams = p.ElasticityParams
	s.ElasticModelParams = p.ElasticModelParams
	s.ForceModelParams = p.ForceModelParams
	if p.NumCurves > 0 {
		s.NumCurves = p.NumCurves
	}
	s.SetZeroForce = p.SetZeroForce
}

// ValidatePresetName rejects blank names and names that cannot appear in a URL path segment
func ValidatePresetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return core.NewValidationError("preset name", "must not be blank")
	}
	if strings.ContainsAny(name, "/?#") {
		return core.NewValidationError("preset name", "must not contain '/', '?' or '#'")
	}
	if len(name) > 128 {
		return core.NewValidationError("preset name", "longer than 128 characters")
	}
	return nil
}

func orEmpty(c FilterConfig) FilterConfig {
	if c == nil {
		return FilterConfig{}
	}
	return c
}
