package interview

import (
	"github.com/careertrail/core/internal/middleware"
	"github.com/careertrail/core/internal/models"
	"github.com/careertrail/core/internal/pkg/pagination"
	"github.com/careertrail/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
	db  *gorm.DB
}

func NewHandler(svc *Service, db *gorm.DB) *Handler {
	return &Handler{svc: svc, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/interviews", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.POST("/:id/answers", h.addAnswer)
}

type createRequest struct {
	TopicID string `json:"topic_id"`
	Title   string `json:"title"`
}

type addAnswerRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// GET /interviews
func (h *Handler) list(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	tx := h.db.Model(&models.InterviewModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var items []models.InterviewModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// POST /interviews
func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	userID := middleware.CurrentUserID(c)
	interview, err := h.svc.Create(c.Request.Context(), userID, req.TopicID, req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, interview)
}

// GET /interviews/:id
func (h *Handler) get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	interview, err := h.svc.GetWithAnswers(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, interview)
}

// POST /interviews/:id/answers
func (h *Handler) addAnswer(c *gin.Context) {
	var req addAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "question and answer are required")
		return
	}

	userID := middleware.CurrentUserID(c)
	answer, err := h.svc.AddAnswer(c.Request.Context(), userID, c.Param("id"), req.Question, req.Answer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, answer)
}
