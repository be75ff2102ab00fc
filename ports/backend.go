package ports

import (
	"context"
	"io"

	"afmdash/domain/curves"
	"afmdash/domain/experiment"
)

// BackendAPI is the analysis backend's REST surface
type BackendAPI interface {
	// LoadExperiment uploads a file and returns its dataset structure
	LoadExperiment(ctx context.Context, filename string, r io.Reader) (*experiment.Structure, error)

	// ProcessFile ingests the selected datasets of an uploaded file
	ProcessFile(ctx context.Context, req experiment.ProcessRequest) (*experiment.ProcessResult, error)

	// Export writes processed curves to a file on the backend
	Export(ctx context.Context, format experiment.Format, req experiment.ExportRequest) (*experiment.ExportResult, error)

	// DownloadExport streams a produced export file into w
	DownloadExport(ctx context.Context, path string, w io.Writer) (int64, error)

	// CalculateSoftmechMetadata previews SoftMech CSV metadata
	CalculateSoftmechMetadata(ctx context.Context, req experiment.SoftmechRequest) (map[string]interface{}, error)

	// AllFParams fetches force-model fit parameters for every curve
	AllFParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.FParam, error)

	// AllElasticityParams fetches elasticity-model parameters for every curve
	AllElasticityParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.ElasticityParam, error)
}
