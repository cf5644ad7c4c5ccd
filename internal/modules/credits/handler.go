package credits

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
	g := rg.Group("/credits", authMW)
	g.GET("/balance", h.getBalance)
	g.GET("/transactions", h.listTransactions)
}

// GET /credits/balance
func (h *Handler) getBalance(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	balance, err := h.svc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"balance": balance})
}

// GET /credits/transactions
func (h *Handler) listTransactions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	q := pagination.FromContext(c)

	tx := h.db.Model(&models.CreditTransactionModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	var items []models.CreditTransactionModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}
