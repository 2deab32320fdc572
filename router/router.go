package router

import (
	"time"

	"budget/api"
	"budget/config"
	"budget/database"
	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置同步服务路由
func SetupRouter(cfg *config.Config, store *database.Store) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	v1 := r.Group("/api/v1")
	{
		// 配对（无需登录，按 IP 限流）
		v1.POST("/pair", middleware.PairRateLimit(cfg.Sync.PairMaxAttempts, time.Minute), api.NewPairHandler(cfg).Pair)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			syncHandler := api.NewSyncHandler(store)
			authorized.GET("/sync/:entity", syncHandler.List)
			authorized.PUT("/sync/:entity", syncHandler.Put)

			exportHandler := api.NewExportHandler(service.NewWorkbookService(store))
			authorized.GET("/export/excel", exportHandler.ExportExcel)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		version, err := store.CurrentSchemaVersion(c.Request.Context())
		if err != nil {
			api.StoreError(c, err, "数据库不可用")
			return
		}
		c.JSON(200, gin.H{
			"status":         "ok",
			"schema_version": version,
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
