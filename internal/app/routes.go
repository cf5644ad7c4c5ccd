package app

import (
	"net/http"

	"github.com/careertrail/core/internal/middleware"
	"github.com/careertrail/core/internal/modules/credits"
	"github.com/careertrail/core/internal/modules/experience"
	"github.com/careertrail/core/internal/modules/interview"
	"github.com/careertrail/core/internal/modules/topics"
	"github.com/careertrail/core/internal/modules/user"
	"github.com/careertrail/core/internal/modules/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type routerDeps struct {
	userHandler      *user.Handler
	interviewHandler *interview.Handler
	creditsHandler   *credits.Handler
	workflowHandler  *workflow.Handler
}

func (a *App) buildRouter(deps routerDeps) *gin.Engine {
	if !a.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(a.logger))
	engine.Use(cors.New(a.corsConfig()))

	engine.GET("/healthz", a.health)

	api := engine.Group("/api/v1")
	authMW := middleware.Auth(a.db)

	deps.userHandler.RegisterRoutes(api, authMW)
	deps.interviewHandler.RegisterRoutes(api, authMW)
	deps.creditsHandler.RegisterRoutes(api, authMW)
	deps.workflowHandler.RegisterRoutes(api, authMW)
	topics.NewHandler(a.db).RegisterRoutes(api, authMW)
	experience.NewHandler(a.db).RegisterRoutes(api, authMW)

	return engine
}

func (a *App) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(a.cfg.AllowedOrigins) > 0 {
		cfg.AllowOrigins = a.cfg.AllowedOrigins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}

// GET /healthz
func (a *App) health(c *gin.Context) {
	status := http.StatusOK
	if !a.ai.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":     http.StatusText(status),
		"ai_healthy": a.ai.Healthy(),
	})
}
