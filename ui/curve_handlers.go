package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"afmdash/domain/curves"
)

// handleSendRequest issues a curve request on the open session; 409 when
// no session is open
func (s *Server) handleSendRequest(c *gin.Context) {
	if err := s.deps.Session.SendCurveRequest(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, s.deps.Session.View().Summarize())
}

func (s *Server) handleReload(c *gin.Context) {
	s.deps.Session.ResetAndReload()
	c.JSON(http.StatusAccepted, s.deps.Session.View().Summarize())
}

func (s *Server) handleView(c *gin.Context) {
	v := s.deps.Session.View()
	c.JSON(http.StatusOK, gin.H{
		"summary":         v.Summarize(),
		"filter_defaults": v.FilterDefaults,
		"metadata":        v.Metadata,
		"updated_at":      v.UpdatedAt,
	})
}

type curvesResponse struct {
	Family  curves.Family      `json:"family"`
	Version int64              `json:"version"`
	Curves  []curves.Curve     `json:"curves"`
	Domain  curves.DomainRange `json:"domain"`

	// only set for force_indentation
	FParams []curves.FParam `json:"curves_fparam,omitempty"`
	// only set for elasticity_spectra
	ElasticityParams []curves.ElasticityParam `json:"curves_elasticity_param,omitempty"`
}

func (s *Server) handleCurves(c *gin.Context) {
	family, err := curves.ParseFamily(c.Param("family"))
	if err != nil {
		s.fail(c, err)
		return
	}
	v := s.deps.Session.View()
	resp := curvesResponse{
		Family:  family,
		Version: v.Version,
		Curves:  v.Datasets.CurvesOf(family),
		Domain:  v.Datasets.Domain(family),
	}
	switch family {
	case curves.FamilyForceIndentation:
		resp.FParams = v.Datasets.Indentation.CurvesFParam
	case curves.FamilyElasticity:
		resp.ElasticityParams = v.Datasets.Elasticity.CurvesElasticityParam
	}
	if resp.Curves == nil {
		resp.Curves = []curves.Curve{}
	}
	c.JSON(http.StatusOK, resp)
}
