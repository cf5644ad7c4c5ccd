package topics

import (
	"errors"

	"github.com/careertrail/core/internal/middleware"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/pagination"
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
	g := rg.Group("/topics", authMW)
	g.GET("", h.list)
	g.PATCH("/:id", h.updateStatus)
}

// GET /topics
func (h *Handler) list(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	tx := h.db.Model(&models.TopicModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.TopicModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /topics/:id
func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	switch req.Status {
	case models.TopicStatusAvailable, models.TopicStatusUsed, models.TopicStatusIrrelevant:
	default:
		response.BadRequest(c, "unknown topic status")
		return
	}

	userID := middleware.CurrentUserID(c)
	var topic models.TopicModel
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&topic).Update("status", req.Status).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, topic)
}
