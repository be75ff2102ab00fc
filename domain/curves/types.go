package curves

import (
	"encoding/json"
	"fmt"

	"afmdash/domain/core"
)

// Family names one of the three chart families fed by the stream
type Family string

const (
	FamilyForceDisplacement Family = "force_displacement"
	FamilyForceIndentation  Family = "force_indentation"
	FamilyElasticity        Family = "elasticity_spectra"
)

// Families lists every chart family in display order
var Families = []Family{FamilyForceDisplacement, FamilyForceIndentation, FamilyElasticity}

// ParseFamily parses a family name, accepting the short aliases used by the UI
func ParseFamily(s string) (Family, error) {
	switch s {
	case string(FamilyForceDisplacement), "force", "fz":
		return FamilyForceDisplacement, nil
	case string(FamilyForceIndentation), "indentation", "fi":
		return FamilyForceIndentation, nil
	case string(FamilyElasticity), "elasticity", "elspectra":
		return FamilyElasticity, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownFamily, s)
}

// Samples is a numeric series decoded leniently: anything that is not an
// array of numbers decodes to an empty series instead of failing the message.
type Samples []float64

// UnmarshalJSON implements json.Unmarshaler
func (s *Samples) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok {
			*s = nil
			return nil
		}
		out = append(out, f)
	}
	*s = out
	return nil
}

// Curve is one sampled series identified by curve_id
type Curve struct {
	CurveID string  `json:"curve_id"`
	X       Samples `json:"x"`
	Y       Samples `json:"y"`
}

// Renderable reports whether x and y pair up point for point
func (c Curve) Renderable() bool {
	return len(c.X) == len(c.Y)
}

// Normalized returns the curve with mismatched series replaced by empty ones
func (c Curve) Normalized() Curve {
	if c.Renderable() {
		return c
	}
	return Curve{CurveID: c.CurveID, X: Samples{}, Y: Samples{}}
}

// NormalizeAll normalizes every curve, allocating a new slice
func NormalizeAll(in []Curve) []Curve {
	if in == nil {
		return nil
	}
	out := make([]Curve, len(in))
	for i, c := range in {
		out[i] = c.Normalized()
	}
	return out
}

// FParam carries force-model fit parameters for the curve at CurveIndex
type FParam struct {
	CurveIndex int     `json:"curve_index"`
	FParam     Samples `json:"fparam"`
}

// ElasticityParam carries elasticity-model parameters for the curve at CurveIndex
type ElasticityParam struct {
	CurveIndex      int     `json:"curve_index"`
	ElasticityParam Samples `json:"elasticity_param"`
}

// IndentationSet is the force-indentation dataset
type IndentationSet struct {
	CurvesCP     []Curve  `json:"curves_cp"`
	CurvesFParam []FParam `json:"curves_fparam"`
}

// ElasticitySet is the elasticity-spectra dataset
type ElasticitySet struct {
	Curves                []Curve           `json:"curves"`
	CurvesElasticityParam []ElasticityParam `json:"curves_elasticity_param"`
}

// Metadata describes the loaded experiment's metadata table
type Metadata struct {
	Columns   []string               `json:"columns"`
	SampleRow map[string]interface{} `json:"sample_row"`
}

// CurveIDAt resolves a positional curve index, returning "" when out of range
func CurveIDAt(list []Curve, index int) string {
	if index < 0 || index >= len(list) {
		return ""
	}
	return list[index].CurveID
}
