package handlers

import (
	"github.com/gin-gonic/gin"

	"pxc/internal/core/apperror"
	"pxc/internal/core/numerator"
)

// IDHandler decodes identifiers and reports the current period.
type IDHandler struct {
	*BaseHandler
	gen numerator.Generator
}

// NewIDHandler creates a new identifier handler.
func NewIDHandler(base *BaseHandler, gen numerator.Generator) *IDHandler {
	return &IDHandler{BaseHandler: base, gen: gen}
}

func (h *IDHandler) kind(c *gin.Context) (numerator.Kind, bool) {
	kind, ok := numerator.ParseKind(c.Param("kind"))
	if !ok {
		h.Error(c, apperror.NewValidation("unknown identifier kind").
			WithDetail("kind", c.Param("kind")))
	}
	return kind, ok
}

// Parse handles GET /ids/:kind/:id/parse.
func (h *IDHandler) Parse(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	parts, err := numerator.Parse(kind, c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, parts)
}

// Period handles GET /ids/:kind/period.
func (h *IDHandler) Period(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	h.OK(c, gin.H{
		"kind":      kind,
		"periodKey": h.gen.PeriodKey(kind),
	})
}
