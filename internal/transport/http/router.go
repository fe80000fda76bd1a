package apihttp

import (
	"dammed/internal/analysis"
	"dammed/internal/auth"
	"dammed/internal/store/gormstore"
	"dammed/internal/store/tracelog"

	"github.com/gin-gonic/gin"
)

// Router 汇聚全部 API 依赖并负责挂载路由。
type Router struct {
	Auth      *auth.Service
	Store     *gormstore.GormStore
	Traces    *tracelog.TraceStore
	Runner    *analysis.Runner
	UploadDir string
}

// NewRouter 构造 API router。
func NewRouter(authSvc *auth.Service, store *gormstore.GormStore, traces *tracelog.TraceStore, runner *analysis.Runner, uploadDir string) *Router {
	return &Router{
		Auth:      authSvc,
		Store:     store,
		Traces:    traces,
		Runner:    runner,
		UploadDir: uploadDir,
	}
}

// Register 将路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/auth/register", r.handleRegister)
	group.POST("/auth/login", r.handleLogin)

	authed := group.Group("")
	authed.Use(r.authRequired())
	authed.POST("/analyze", r.handleAnalyze)
	authed.GET("/history", r.handleHistory)
	authed.GET("/dashboard", r.handleDashboard)
	authed.GET("/leaderboard", r.handleLeaderboard)
	authed.GET("/certificate", r.handleCertificate)
	authed.GET("/traces/:id", r.handleTrace)
	authed.GET("/shop/items", r.handleShopList)
	authed.POST("/shop/items", r.handleShopAdd)
}
