package curves

// DomainRange is the running axis bounding box for one chart family.
// A nil bound has not been established yet.
type DomainRange struct {
	XMin *float64 `json:"xMin"`
	XMax *float64 `json:"xMax"`
	YMin *float64 `json:"yMin"`
	YMax *float64 `json:"yMax"`
}

// NewDomainRange builds a fully established range
func NewDomainRange(xMin, xMax, yMin, yMax float64) DomainRange {
	return DomainRange{XMin: &xMin, XMax: &xMax, YMin: &yMin, YMax: &yMax}
}

// IsEmpty reports whether no bound has been established
func (d DomainRange) IsEmpty() bool {
	return d.XMin == nil && d.XMax == nil && d.YMin == nil && d.YMax == nil
}

// Fold widens the running range with an incoming batch domain. Each bound
// folds on its own: a missing incoming bound leaves the running bound
// untouched, and no bound ever moves inward.
func (d DomainRange) Fold(in DomainRange) DomainRange {
	less := func(cur, in float64) bool { return in < cur }
	greater := func(cur, in float64) bool { return in > cur }
	return DomainRange{
		XMin: foldBound(d.XMin, in.XMin, less),
		XMax: foldBound(d.XMax, in.XMax, greater),
		YMin: foldBound(d.YMin, in.YMin, less),
		YMax: foldBound(d.YMax, in.YMax, greater),
	}
}

func foldBound(cur, in *float64, better func(cur, in float64) bool) *float64 {
	if in == nil {
		return cur
	}
	if cur == nil || better(*cur, *in) {
		v := *in
		return &v
	}
	return cur
}
