package analysis

// Clone returns a deep copy of the filter config
func (c FilterConfig) Clone() FilterConfig {
	if c == nil {
		return nil
	}
	out := make(FilterConfig, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of all four families
func (f Filters) Clone() Filters {
	return Filters{
		Regular:          f.Regular.Clone(),
		CPFilters:        f.CPFilters.Clone(),
		ForceModels:      f.ForceModels.Clone(),
		ElasticityModels: f.ElasticityModels.Clone(),
	}
}

// Family returns the config for a named family
func (f Filters) Family(name FilterFamily) (FilterConfig, bool) {
	switch name {
	case FamilyRegular:
		return f.Regular, true
	case FamilyContactPoint:
		return f.CPFilters, true
	case FamilyForceModels:
		return f.ForceModels, true
	case FamilyElasticityModels:
		return f.ElasticityModels, true
	}
	return nil, false
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	out := s
	out.Filters = s.Filters.Clone()
	out.SelectedCurveIDs = cloneStrings(s.SelectedCurveIDs)
	out.SelectedExportCurveIDs = cloneStrings(s.SelectedExportCurveIDs)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case FilterConfig:
		return t.Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	case []float64:
		out := make([]float64, len(t))
		copy(out, t)
		return out
	case []string:
		return cloneStrings(t)
	default:
		return v
	}
}
