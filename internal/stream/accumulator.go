package stream

import (
	"fmt"

	"afmdash/domain/analysis"
	"afmdash/domain/curves"
	"afmdash/domain/feed"
	"afmdash/internal/protocol"
)

// Accumulated is everything assembled from one session's stream plus the
// backend-advertised defaults and metadata. Values are never mutated in place:
// Reduce always returns fresh slices, so a published Accumulated can be read
// concurrently without locking.
type Accumulated struct {
	curves.Datasets
	FilterDefaults analysis.FilterDefaults `json:"filter_defaults"`
	Metadata       curves.Metadata         `json:"metadata"`
}

// NewAccumulated returns an empty accumulator with fallback filter defaults
func NewAccumulated() Accumulated {
	return Accumulated{
		Datasets:       curves.EmptyDatasets(),
		FilterDefaults: analysis.InitialFilterDefaults(),
		Metadata:       curves.Metadata{Columns: []string{}, SampleRow: map[string]interface{}{}},
	}
}

// ResetCurves clears curves and domains for all three families. Filter
// defaults and metadata survive.
func ResetCurves(acc Accumulated) Accumulated {
	acc.Datasets = curves.EmptyDatasets()
	return acc
}

// Reduce applies one decoded message to the accumulated state. It is pure:
// the input is left untouched and side effects are returned for the caller to
// carry out.
func Reduce(acc Accumulated, action protocol.Action) (Accumulated, []Effect) {
	switch a := action.(type) {
	case protocol.BatchReceived:
		return applyBatch(acc, a)
	case protocol.FilterDefaultsReceived:
		acc.FilterDefaults = a.Defaults
		return acc, nil
	case protocol.MetadataReceived:
		acc.Metadata = a.Metadata
		return acc, nil
	case protocol.Completed:
		return acc, []Effect{LoadingDone{Outcome: feed.OutcomeComplete}}
	case protocol.Failed:
		return acc, []Effect{
			LoadingDone{Outcome: feed.OutcomeError},
			ReportError{Message: a.Message},
		}
	case protocol.Notice:
		return acc, []Effect{Log{Level: LogInfo, Message: fmt.Sprintf("%s: %s", a.Status, a.Message)}}
	case protocol.Ignored:
		return acc, []Effect{Log{Level: LogDebug, Message: fmt.Sprintf("ignored message status=%q: %s", a.Status, a.Reason)}}
	default:
		return acc, []Effect{Log{Level: LogWarn, Message: fmt.Sprintf("unhandled action %s", protocol.Name(action))}}
	}
}

func applyBatch(acc Accumulated, b protocol.BatchReceived) (Accumulated, []Effect) {
	var effects []Effect
	for _, key := range b.Skipped {
		effects = append(effects, Log{Level: LogWarn, Message: fmt.Sprintf("dropped undecodable graph %s", key)})
	}

	// force-displacement
	if g := b.ForceVsZSingle; g != nil && len(g.Curves) > 0 {
		acc.Force = concat(nil, g.Curves)
		acc.ForceDomain = foldDomain(acc.ForceDomain, g.Domain)
	} else if g := b.ForceVsZ; g != nil {
		acc.Force = concat(acc.Force, g.Curves)
		acc.ForceDomain = foldDomain(acc.ForceDomain, g.Domain)
	}

	// force-indentation
	if g := b.ForceIndentationSingle; g != nil && g.Curves != nil && len(g.Curves.CurvesCP) > 0 {
		acc.Indentation = curves.IndentationSet{
			CurvesCP:     concat(nil, g.Curves.CurvesCP),
			CurvesFParam: replaceOrKeep(acc.Indentation.CurvesFParam, g.Curves.CurvesFParam),
		}
		acc.IndentationDomain = foldDomain(acc.IndentationDomain, g.Domain)
		if len(g.Curves.CurvesCP) == 1 {
			effects = append(effects, SelectCurves{IDs: []string{g.Curves.CurvesCP[0].CurveID}})
		}
	} else if g := b.ForceIndentation; g != nil {
		next := curves.IndentationSet{
			CurvesCP:     concat(acc.Indentation.CurvesCP, nil),
			CurvesFParam: concat(acc.Indentation.CurvesFParam, nil),
		}
		if g.Curves != nil {
			next.CurvesCP = concat(acc.Indentation.CurvesCP, g.Curves.CurvesCP)
			next.CurvesFParam = concat(acc.Indentation.CurvesFParam, g.Curves.CurvesFParam)
		}
		acc.Indentation = next
		acc.IndentationDomain = foldDomain(acc.IndentationDomain, g.Domain)
	}

	// elasticity spectra
	if g := b.ElasticitySpectraSingle; g != nil && len(g.Curves) > 0 {
		acc.Elasticity = curves.ElasticitySet{
			Curves:                concat(nil, g.Curves),
			CurvesElasticityParam: replaceOrKeep(acc.Elasticity.CurvesElasticityParam, g.CurvesElasticityParam),
		}
		acc.ElasticityDomain = foldDomain(acc.ElasticityDomain, g.Domain)
	} else if g := b.ElasticitySpectra; g != nil {
		acc.Elasticity = curves.ElasticitySet{
			Curves:                concat(acc.Elasticity.Curves, g.Curves),
			CurvesElasticityParam: concat(acc.Elasticity.CurvesElasticityParam, g.CurvesElasticityParam),
		}
		acc.ElasticityDomain = foldDomain(acc.ElasticityDomain, g.Domain)
	}

	return acc, effects
}

func foldDomain(running curves.DomainRange, in *curves.DomainRange) curves.DomainRange {
	if in == nil {
		return running
	}
	return running.Fold(*in)
}

// concat always allocates, so no two Accumulated values share a backing array
func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// replaceOrKeep replaces a sub-collection only when the single-curve payload
// carried it
func replaceOrKeep[T any](current, incoming []T) []T {
	if incoming == nil {
		return concat(current, nil)
	}
	return concat(nil, incoming)
}
