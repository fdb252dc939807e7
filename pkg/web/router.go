package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/web/views/compound"
	"github.com/scienceol/chemlookup/pkg/web/views/health"
)

func NewRouter(ctx context.Context, g *gin.Engine) {
	installMiddleware(g)
	installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(_ context.Context, g *gin.Engine) {
	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)

	cHandle := compound.NewCompoundHandle()
	{
		v1 := api.Group("/v1")
		compoundRouter := v1.Group("/compound")
		compoundRouter.GET("/smiles", cHandle.Smiles)
		compoundRouter.GET("/cid/:cid", cHandle.CID)
		compoundRouter.GET("/name", cHandle.Name)
		compoundRouter.GET("/cids", cHandle.CIDs)
		compoundRouter.POST("/batch", cHandle.Batch)
		compoundRouter.GET("/history", cHandle.History)
	}
}
