package handler

import (
	"context"
	"log"
	"time"

	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

// Pinger is anything /status can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(c *gin.Context) {
	utils.Success(c, gin.H{
		"service":   "server",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// StatusHandler probes the store and the session cache. Only an unreachable store fails
// the check; the cache result is reported alongside.
func StatusHandler(c *gin.Context, store, cache Pinger) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		log.Printf("Store ping failed: %v", err)
		utils.InternalError(c, "Store unreachable: "+err.Error())
		return
	}

	cacheReachable := true
	if err := cache.Ping(ctx); err != nil {
		log.Printf("Session cache ping failed: %v", err)
		cacheReachable = false
	}

	utils.Success(c, gin.H{
		"store_reachable": true,
		"cache_reachable": cacheReachable,
		"cpu_percent":     utils.GetCPUUsage(),
	})
}
