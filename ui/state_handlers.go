package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"afmdash/domain/analysis"
)

func (s *Server) handleGetState(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

// handleResetState restores default filters and parameters. Accumulated
// curves are untouched until the next request.
func (s *Server) handleResetState(c *gin.Context) {
	s.deps.Store.Reset()
	c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

// handlePutFilters merges the families present in the body
func (s *Server) handlePutFilters(c *gin.Context) {
	var body map[analysis.FilterFamily]analysis.FilterConfig
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "filters must be an object keyed by family")
		return
	}
	for family := range body {
		if _, ok := analysis.DefaultFilters().Family(family); !ok {
			s.badRequest(c, "unknown filter family "+string(family))
			return
		}
	}
	s.deps.Store.SetFilters(body)
	c.JSON(http.StatusOK, s.deps.Store.Snapshot().Filters)
}

type paramsBody struct {
	ElasticityParams   *analysis.ElasticityParams   `json:"elasticity_params"`
	ElasticModelParams *analysis.ElasticModelParams `json:"elastic_model_params"`
	ForceModelParams   *analysis.ForceModelParams   `json:"force_model_params"`
}

func (s *Server) handlePutParams(c *gin.Context) {
	var body paramsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid params body")
		return
	}
	s.deps.Store.Update(func(st *analysis.State) {
		if body.ElasticityParams != nil {
			st.ElasticityParams = *body.ElasticityParams
		}
		if body.ElasticModelParams != nil {
			st.ElasticModelParams = *body.ElasticModelParams
		}
		if body.ForceModelParams != nil {
			st.ForceModelParams = *body.ForceModelParams
		}
	})
	c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

func (s *Server) handlePutNumCurves(c *gin.Context) {
	var body struct {
		NumCurves int `json:"num_curves"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.NumCurves <= 0 {
		s.badRequest(c, "num_curves must be a positive integer")
		return
	}
	s.deps.Store.SetNumCurves(body.NumCurves)
	c.JSON(http.StatusOK, gin.H{"num_curves": body.NumCurves})
}

type selectionBody struct {
	SelectedCurveID        *string  `json:"selected_curve_id"`
	SelectedCurveIDs       []string `json:"selected_curve_ids"`
	SelectedExportCurveIDs []string `json:"selected_export_curve_ids"`
}

func (s *Server) handlePutSelection(c *gin.Context) {
	var body selectionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid selection body")
		return
	}
	s.deps.Store.Update(func(st *analysis.State) {
		if body.SelectedCurveID != nil {
			st.SelectedCurveID = *body.SelectedCurveID
		}
		if body.SelectedCurveIDs != nil {
			st.SelectedCurveIDs = body.SelectedCurveIDs
		}
		if body.SelectedExportCurveIDs != nil {
			st.SelectedExportCurveIDs = body.SelectedExportCurveIDs
		}
	})
	c.JSON(http.StatusOK, s.deps.Store.Snapshot())
}

func (s *Server) handlePutZeroForce(c *gin.Context) {
	var body struct {
		SetZeroForce *bool `json:"set_zero_force"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SetZeroForce == nil {
		s.badRequest(c, "set_zero_force is required")
		return
	}
	s.deps.Store.SetZeroForce(*body.SetZeroForce)
	c.JSON(http.StatusOK, gin.H{"set_zero_force": *body.SetZeroForce})
}
