package curves

// Datasets holds the accumulated curves and running domains of all three
// chart families
type Datasets struct {
	Force             []Curve        `json:"force"`
	Indentation       IndentationSet `json:"indentation"`
	Elasticity        ElasticitySet  `json:"elasticity"`
	ForceDomain       DomainRange    `json:"force_domain"`
	IndentationDomain DomainRange    `json:"indentation_domain"`
	ElasticityDomain  DomainRange    `json:"elasticity_domain"`
}

// EmptyDatasets returns datasets with empty, non-nil collections and
// unestablished domains
func EmptyDatasets() Datasets {
	return Datasets{
		Force:       []Curve{},
		Indentation: IndentationSet{CurvesCP: []Curve{}, CurvesFParam: []FParam{}},
		Elasticity:  ElasticitySet{Curves: []Curve{}, CurvesElasticityParam: []ElasticityParam{}},
	}
}

// CurveCount returns the number of accumulated curves for a family
func (d Datasets) CurveCount(f Family) int {
	switch f {
	case FamilyForceDisplacement:
		return len(d.Force)
	case FamilyForceIndentation:
		return len(d.Indentation.CurvesCP)
	case FamilyElasticity:
		return len(d.Elasticity.Curves)
	}
	return 0
}

// Domain returns the running domain for a family
func (d Datasets) Domain(f Family) DomainRange {
	switch f {
	case FamilyForceDisplacement:
		return d.ForceDomain
	case FamilyForceIndentation:
		return d.IndentationDomain
	case FamilyElasticity:
		return d.ElasticityDomain
	}
	return DomainRange{}
}

// CurvesOf returns the primary curve list of a family
func (d Datasets) CurvesOf(f Family) []Curve {
	switch f {
	case FamilyForceDisplacement:
		return d.Force
	case FamilyForceIndentation:
		return d.Indentation.CurvesCP
	case FamilyElasticity:
		return d.Elasticity.Curves
	}
	return nil
}
