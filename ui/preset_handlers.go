package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListPresets(c *gin.Context) {
	presets, err := s.deps.Presets.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// handleSavePreset stores the current configuration under :name
func (s *Server) handleSavePreset(c *gin.Context) {
	p, err := s.deps.Presets.Save(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleApplyPreset(c *gin.Context) {
	p, err := s.deps.Presets.Apply(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": p.Name, "state": s.deps.Store.Snapshot()})
}

func (s *Server) handleDeletePreset(c *gin.Context) {
	if err := s.deps.Presets.Delete(c.Request.Context(), c.Param("name")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
