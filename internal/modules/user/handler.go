package user

import (
	"time"

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
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)

	g := rg.Group("/user", authMW)
	g.GET("/me", h.me)
	g.POST("/tokens", h.createToken)
	g.GET("/tokens", h.listTokens)
	g.DELETE("/tokens/:id", h.deleteToken)
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createTokenRequest struct {
	Name      string     `json:"name" binding:"required"`
	ExpiredAt *time.Time `json:"expired_at"`
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username (min 3) and password (min 8) are required")
		return
	}

	account, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	token, account, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"token": token, "user": account})
}

// GET /user/me
func (h *Handler) me(c *gin.Context) {
	account, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, account)
}

// POST /user/tokens
func (h *Handler) createToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name is required")
		return
	}

	token, err := h.svc.CreateAPIToken(c.Request.Context(), middleware.CurrentUserID(c), req.Name, req.ExpiredAt)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, token)
}

// GET /user/tokens
func (h *Handler) listTokens(c *gin.Context) {
	tokens, err := h.svc.ListAPITokens(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tokens)
}

// DELETE /user/tokens/:id
func (h *Handler) deleteToken(c *gin.Context) {
	err := h.svc.DeleteAPIToken(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
