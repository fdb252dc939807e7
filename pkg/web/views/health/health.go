package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/redis"
)

func Health(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Live(g *gin.Context) {
	g.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks only the backends the config turned on.
func Ready(g *gin.Context) {
	conf := config.Global()
	checks := gin.H{}
	healthy := true

	if conf.Store.Enable {
		if ds := db.DB(); ds != nil {
			sqlDB, err := ds.DBIns().DB()
			if err != nil || sqlDB.PingContext(g.Request.Context()) != nil {
				checks["postgres"] = "unhealthy"
				healthy = false
			} else {
				checks["postgres"] = "ok"
			}
		} else {
			checks["postgres"] = "not_initialized"
			healthy = false
		}
	} else {
		checks["postgres"] = "disabled"
	}

	switch {
	case conf.Cache.Backend != config.CacheRedis:
		checks["redis"] = "disabled"
	case redis.GetClient() == nil:
		// lookups still work on the memory fallback
		checks["redis"] = "not_initialized"
	default:
		if err := redis.GetClient().Ping(g.Request.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	msg := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		msg = "not_ready"
	}

	g.JSON(status, gin.H{
		"status": msg,
		"checks": checks,
	})
}
