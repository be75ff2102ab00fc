package experiment

import (
	"fmt"
	"slices"
	"strings"

	"afmdash/domain/analysis"
	"afmdash/domain/core"
)

// Structure is the backend's description of an uploaded file awaiting dataset
// path selection
type Structure struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message"`
	Filename  string                 `json:"filename"`
	FileType  string                 `json:"file_type"`
	Structure map[string]interface{} `json:"structure"`
	Errors    []string               `json:"errors"`
}

// ProcessRequest selects datasets inside an uploaded file
type ProcessRequest struct {
	FilePath     string                 `json:"file_path"`
	FileType     string                 `json:"file_type"`
	ForcePath    string                 `json:"force_path"`
	ZPath        string                 `json:"z_path"`
	MetadataPath string                 `json:"metadata_path,omitempty"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// Validate checks the fields the backend requires
func (r ProcessRequest) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"file_path":  r.FilePath,
		"file_type":  r.FileType,
		"force_path": r.ForcePath,
		"z_path":     r.ZPath,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return core.NewValidationError("process request", fmt.Sprintf("missing %s", strings.Join(missing, ", ")))
	}
	return nil
}

// ProcessResult is returned once a file has been ingested server-side
type ProcessResult struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	Curves         int      `json:"curves"`
	Filename       string   `json:"filename"`
	SpringConstant float64  `json:"spring_constant"`
	TipRadiusUM    float64  `json:"tip_radius_um"`
	Errors         []string `json:"errors"`
}

// Format is an export file format
type Format string

const (
	FormatHDF5 Format = "hdf5"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"
)

// ParseFormat validates an export format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatHDF5, FormatJSON, FormatCSV, FormatTXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidFormat, s)
}

// ExportType selects how CSV exports aggregate curves
type ExportType string

const (
	ExportRaw     ExportType = "raw"
	ExportAverage ExportType = "average"
	ExportScatter ExportType = "scatter"
)

// ExportRequest is the payload of POST /export/{format}
type ExportRequest struct {
	ExportPath       string                     `json:"export_path"`
	CurveIDs         []string                   `json:"curve_ids,omitempty"`
	NumCurves        int                        `json:"num_curves,omitempty"`
	LevelNames       []string                   `json:"level_names,omitempty"`
	MetadataPath     string                     `json:"metadata_path,omitempty"`
	DatasetPath      string                     `json:"dataset_path,omitempty"`
	Metadata         map[string]interface{}     `json:"metadata,omitempty"`
	ExportType       ExportType                 `json:"export_type,omitempty"`
	DatasetType      string                     `json:"dataset_type,omitempty"`
	Direction        string                     `json:"direction,omitempty"`
	Loose            int                        `json:"loose,omitempty"`
	Filters          *analysis.Filters          `json:"filters,omitempty"`
	SoftmechMetadata map[string]interface{}     `json:"softmech_metadata,omitempty"`
	ForceModelParams *analysis.ForceModelParams `json:"force_model_params,omitempty"`
}

// ExportResult is the backend's export acknowledgement
type ExportResult struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	ExportPath     string   `json:"export_path"`
	ExportedCurves int      `json:"exported_curves"`
	ExportType     string   `json:"export_type"`
	DatasetType    string   `json:"dataset_type"`
	Errors         []string `json:"errors"`
}

// SoftmechRequest asks the backend for SoftMech-style CSV metadata
type SoftmechRequest struct {
	CurveIDs    []string          `json:"curve_ids,omitempty"`
	NumCurves   int               `json:"num_curves,omitempty"`
	ExportType  ExportType        `json:"export_type"`
	DatasetType string            `json:"dataset_type"`
	Direction   string            `json:"direction"`
	Loose       int               `json:"loose"`
	Filters     *analysis.Filters `json:"filters,omitempty"`
}

// ParamsRequest asks the backend for fit parameters of every curve
type ParamsRequest struct {
	NumCurves          int                          `json:"num_curves"`
	Filters            analysis.Filters             `json:"filters"`
	ForceModelParams   *analysis.ForceModelParams   `json:"force_model_params,omitempty"`
	ElasticityParams   *analysis.ElasticityParams   `json:"elasticity_params,omitempty"`
	ElasticModelParams *analysis.ElasticModelParams `json:"elastic_model_params,omitempty"`
}
