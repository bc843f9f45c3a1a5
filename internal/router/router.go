package router

import (
	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

	"problem-tracker/internal/handler"
	"problem-tracker/internal/middleware"
	"problem-tracker/pkg/logging"
	"problem-tracker/web"
)

// Options 路由依赖
type Options struct {
	Bundle      *goi18n.Bundle
	DefaultLang string
	AllowOrigin string
}

// Setup 注册中间件、API 与页面
func Setup(opt Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.CorsMiddleware(opt.AllowOrigin))
	r.Use(middleware.I18nMiddleware(opt.Bundle, opt.DefaultLang))

	api := r.Group("/api")
	{
		api.GET("/problems", handler.ListProblemsHandler)
		api.POST("/problems/add", handler.AddProblemHandler)
		api.POST("/problems/status", handler.UpdateStatusHandler)
		api.POST("/problems/:id/done", handler.MarkDoneHandler)
	}

	web.Register(r)
	return r
}
