package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"veridoc/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

type probeResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	probes := map[string]probeResult{
		"mysql":    h.probeMySQL(ctx),
		"redis":    h.probeRedis(ctx),
		"rabbitmq": h.probeRabbitMQ(),
	}

	status := http.StatusOK
	for _, probe := range probes {
		if !probe.OK {
			status = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(status, gin.H{
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"index_size": h.app.Index.Size(),
		"probes":     probes,
	})
}

func (h *HealthHandler) probeMySQL(ctx context.Context) probeResult {
	sqlDB, err := h.app.MySQL.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return probeResult{Error: err.Error()}
	}
	return probeResult{OK: true}
}

func (h *HealthHandler) probeRedis(ctx context.Context) probeResult {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return probeResult{Error: err.Error()}
	}
	return probeResult{OK: true}
}

func (h *HealthHandler) probeRabbitMQ() probeResult {
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return probeResult{Error: "connection closed"}
	}
	return probeResult{OK: true}
}
