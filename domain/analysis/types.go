package analysis

// FilterFamily is one independent keyed configuration group sent with every request
type FilterFamily string

const (
	FamilyRegular          FilterFamily = "regular"
	FamilyContactPoint     FilterFamily = "cp_filters"
	FamilyForceModels      FilterFamily = "f_models"
	FamilyElasticityModels FilterFamily = "e_models"
)

// FilterConfig maps a filter name to its parameter object
type FilterConfig map[string]interface{}

// Filters holds the four filter families
type Filters struct {
	Regular          FilterConfig `json:"regular" yaml:"regular" toml:"regular"`
	CPFilters        FilterConfig `json:"cp_filters" yaml:"cp_filters" toml:"cp_filters"`
	ForceModels      FilterConfig `json:"f_models" yaml:"f_models" toml:"f_models"`
	ElasticityModels FilterConfig `json:"e_models" yaml:"e_models" toml:"e_models"`
}

// ElasticityParams controls elasticity smoothing on the backend
type ElasticityParams struct {
	Interpolate bool `json:"interpolate" yaml:"interpolate" toml:"interpolate"`
	Order       int  `json:"order" yaml:"order" toml:"order"`
	Window      int  `json:"window" yaml:"window" toml:"window"`
}

// ElasticModelParams bounds the elastic model fit window
type ElasticModelParams struct {
	MaxInd int `json:"maxInd" yaml:"maxInd" toml:"maxInd"`
	MinInd int `json:"minInd" yaml:"minInd" toml:"minInd"`
}

// ForceModelParams bounds the force model fit window and carries the Poisson ratio
type ForceModelParams struct {
	MaxInd  int     `json:"maxInd" yaml:"maxInd" toml:"maxInd"`
	MinInd  int     `json:"minInd" yaml:"minInd" toml:"minInd"`
	Poisson float64 `json:"poisson" yaml:"poisson" toml:"poisson"`
}

// LoadingFlags are the dashboard's busy indicators
type LoadingFlags struct {
	Curves bool `json:"curves"`
	Import bool `json:"import"`
	Export bool `json:"export"`
}

// ConnectionStatus is the backend socket status shown to users
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// DefaultNumCurves is the curve count requested when none is configured
const DefaultNumCurves = 10

// State is the process-wide analysis state shared by UI controls and the
// streaming core
type State struct {
	Filters                Filters            `json:"filters"`
	ElasticityParams       ElasticityParams   `json:"elasticity_params"`
	ElasticModelParams     ElasticModelParams `json:"elastic_model_params"`
	ForceModelParams       ForceModelParams   `json:"force_model_params"`
	NumCurves              int                `json:"num_curves"`
	SelectedCurveID        string             `json:"selected_curve_id"`
	SelectedCurveIDs       []string           `json:"selected_curve_ids"`
	SelectedExportCurveIDs []string           `json:"selected_export_curve_ids"`
	SetZeroForce           bool               `json:"set_zero_force"`
	Loading                LoadingFlags       `json:"loading"`
	ConnectionStatus       ConnectionStatus   `json:"connection_status"`
	LastSocketError        string             `json:"last_socket_error,omitempty"`
	Error                  string             `json:"error,omitempty"`
}

// DefaultFilters returns empty, non-nil filter families
func DefaultFilters() Filters {
	return Filters{
		Regular:          FilterConfig{},
		CPFilters:        FilterConfig{},
		ForceModels:      FilterConfig{},
		ElasticityModels: FilterConfig{},
	}
}

// DefaultState returns the baseline state aligned with backend defaults
func DefaultState() State {
	return State{
		Filters:                DefaultFilters(),
		ElasticityParams:       ElasticityParams{Interpolate: true, Order: 2, Window: 61},
		ElasticModelParams:     ElasticModelParams{MaxInd: 800, MinInd: 0},
		ForceModelParams:       ForceModelParams{MaxInd: 800, MinInd: 0, Poisson: 0.5},
		NumCurves:              DefaultNumCurves,
		SelectedCurveIDs:       []string{},
		SelectedExportCurveIDs: []string{},
		SetZeroForce:           true,
		ConnectionStatus:       StatusDisconnected,
	}
}

// FilterDefaults are the backend-advertised default definitions per family
type FilterDefaults struct {
	Regular          FilterConfig `json:"regular"`
	CPFilters        FilterConfig `json:"cp_filters"`
	ForceModels      FilterConfig `json:"f_models"`
	ElasticityModels FilterConfig `json:"e_models"`
}

// InitialFilterDefaults is what the dashboard shows before the backend
// advertises its own defaults
func InitialFilterDefaults() FilterDefaults {
	return FilterDefaults{
		Regular: FilterConfig{},
		CPFilters: FilterConfig{
			"autotresh": map[string]interface{}{"range_to_set_zero": 500.0},
		},
		ForceModels:      FilterConfig{},
		ElasticityModels: FilterConfig{},
	}
}
