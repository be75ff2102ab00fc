package protocol

import (
	"afmdash/domain/analysis"
	"afmdash/domain/curves"
)

// Inbound status discriminators
const (
	StatusBatch          = "batch"
	StatusFilterDefaults = "filter_defaults"
	StatusMetadata       = "metadata"
	StatusComplete       = "complete"
	StatusError          = "error"
	StatusBatchEmpty     = "batch_empty"
	StatusBatchError     = "batch_error"
)

// Batch payload keys
const (
	KeyForceVsZ                = "graphForcevsZ"
	KeyForceVsZSingle          = "graphForcevsZSingle"
	KeyForceIndentation        = "graphForceIndentation"
	KeyForceIndentationSingle  = "graphForceIndentationSingle"
	KeyElasticitySpectra       = "graphElspectra"
	KeyElasticitySpectraSingle = "graphElspectraSingle"
)

// Action is one decoded inbound message. The concrete types below form a
// closed set consumed by the stream reducer.
type Action interface {
	actionName() string
}

// ForceGraph is the force-displacement payload of a batch
type ForceGraph struct {
	Curves []curves.Curve       `json:"curves"`
	Domain *curves.DomainRange `json:"domain"`
}

// IndentationGraph is the force-indentation payload of a batch
type IndentationGraph struct {
	Curves *curves.IndentationSet `json:"curves"`
	Domain *curves.DomainRange    `json:"domain"`
}

// ElasticityGraph is the elasticity-spectra payload of a batch
type ElasticityGraph struct {
	Curves                []curves.Curve           `json:"curves"`
	CurvesElasticityParam []curves.ElasticityParam `json:"curves_elasticity_param"`
	Domain                *curves.DomainRange      `json:"domain"`
}

// BatchReceived carries up to six graph payloads. Nil means the key was absent
// or could not be decoded; Skipped names keys that were present but unusable.
type BatchReceived struct {
	ForceVsZ                *ForceGraph
	ForceVsZSingle          *ForceGraph
	ForceIndentation        *IndentationGraph
	ForceIndentationSingle  *IndentationGraph
	ElasticitySpectra       *ElasticityGraph
	ElasticitySpectraSingle *ElasticityGraph
	Skipped                 []string
}

// FilterDefaultsReceived carries backend filter definitions with the
// _filter_array suffix already stripped from every key
type FilterDefaultsReceived struct {
	Defaults analysis.FilterDefaults
}

// MetadataReceived carries the experiment metadata table description
type MetadataReceived struct {
	Metadata curves.Metadata
}

// Completed marks the end of streaming for the current request
type Completed struct{}

// Failed carries a backend-reported analysis error
type Failed struct {
	Message string
}

// Notice is an informational batch_empty or batch_error message
type Notice struct {
	Status  string
	Message string
}

// Ignored is a well-formed message the core has no use for
type Ignored struct {
	Status string
	Reason string
}

func (BatchReceived) actionName() string          { return "BatchReceived" }
func (FilterDefaultsReceived) actionName() string { return "FilterDefaultsReceived" }
func (MetadataReceived) actionName() string       { return "MetadataReceived" }
func (Completed) actionName() string              { return "Completed" }
func (Failed) actionName() string                 { return "Failed" }
func (Notice) actionName() string                 { return "Notice" }
func (Ignored) actionName() string                { return "Ignored" }

// Name returns the action's type name for logging
func Name(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.actionName()
}
