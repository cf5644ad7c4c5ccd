// Package experience exposes the persisted career record.
package experience

import (
	"errors"

	"github.com/careertrail/core/internal/middleware"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/experience", authMW)
	g.GET("", h.get)
}

// GET /experience
func (h *Handler) get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var record models.ExperienceModel
	err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFoundMsg(c, "no career record yet, complete an interview first")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, record)
}
