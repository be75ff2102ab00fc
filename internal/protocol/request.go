package protocol

import (
	"encoding/json"

	"afmdash/domain/analysis"
)

// ActionGetMetadata is the only outbound action the analysis socket understands
const ActionGetMetadata = "get_metadata"

// RequestFilters is the wire form of the four filter families
type RequestFilters struct {
	Regular          analysis.FilterConfig `json:"regular"`
	CPFilters        analysis.FilterConfig `json:"cp_filters"`
	ForceModels      analysis.FilterConfig `json:"f_models"`
	ElasticityModels analysis.FilterConfig `json:"e_models"`
}

// Request is the outbound analysis request
type Request struct {
	Action             string                      `json:"action"`
	NumCurves          int                         `json:"num_curves"`
	Filters            RequestFilters              `json:"filters"`
	ElasticityParams   analysis.ElasticityParams   `json:"elasticity_params"`
	ElasticModelParams analysis.ElasticModelParams `json:"elastic_model_params"`
	ForceModelParams   analysis.ForceModelParams   `json:"force_model_params"`
	SetZeroForce       bool                        `json:"set_zero_force"`
	CurveID            string                      `json:"curve_id,omitempty"`
}

// NewRequest builds a request from one consistent state snapshot. The filter
// families are deep-copied so later state mutations cannot leak into it.
func NewRequest(s analysis.State) Request {
	return Request{
		Action:    ActionGetMetadata,
		NumCurves: s.NumCurves,
		Filters: RequestFilters{
			Regular:          orEmpty(s.Filters.Regular.Clone()),
			CPFilters:        orEmpty(s.Filters.CPFilters.Clone()),
			ForceModels:      orEmpty(s.Filters.ForceModels.Clone()),
			ElasticityModels: orEmpty(s.Filters.ElasticityModels.Clone()),
		},
		ElasticityParams:   s.ElasticityParams,
		ElasticModelParams: s.ElasticModelParams,
		ForceModelParams:   s.ForceModelParams,
		SetZeroForce:       s.SetZeroForce,
		CurveID:            s.SelectedCurveID,
	}
}

// Encode serialises the request for a text frame
func (r Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

func orEmpty(c analysis.FilterConfig) analysis.FilterConfig {
	if c == nil {
		return analysis.FilterConfig{}
	}
	return c
}
