package workflow

import (
	"github.com/careertrail/core/internal/middleware"
	"github.com/careertrail/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/interviews", authMW)
	g.POST("/:id/complete", h.complete)
}

// POST /interviews/:id/complete
func (h *Handler) complete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	result, err := h.svc.Run(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
