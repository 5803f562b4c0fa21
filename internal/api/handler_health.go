package api

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"boo-display-backend/internal/device"
)

type probe struct {
	key    string
	sensor string
	value  float64
	err    error
}

type healthResponse struct {
	BootCount       int64     `json:"boot_count"`
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	RTTMs           int64     `json:"rtt_ms"`
	ServerGitSHA    string    `json:"server_git_sha"`
	ServerStartedAt time.Time `json:"server_started_at"`
}

// Health handles GET /health. The three sensor probes run concurrently and
// rtt_ms is the wall time of the whole round.
func (h *Handler) Health(c *gin.Context) {
	probes := []*probe{
		{key: "boot_count", sensor: device.SensorBootCount},
		{key: "temperature", sensor: device.SensorTemperature},
		{key: "humidity", sensor: device.SensorHumidity},
	}

	start := time.Now()
	h.runProbes(c.Request.Context(), probes)
	rtt := time.Since(start)

	sensors := gin.H{}
	failed := false
	for _, p := range probes {
		if p.err != nil {
			failed = true
			sensors[p.key] = p.err.Error()
			continue
		}
		sensors[p.key] = "ok"
	}
	if failed {
		h.log.Warnw("health check failed", "sensors", sensors, "rtt_ms", rtt.Milliseconds())
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":   "Device health check failed",
			"sensors": sensors,
		})
		return
	}

	c.JSON(http.StatusOK, healthResponse{
		BootCount:       int64(math.Round(probes[0].value)),
		TemperatureC:    probes[1].value,
		HumidityPct:     probes[2].value,
		RTTMs:           rtt.Milliseconds(),
		ServerGitSHA:    h.gitSHA,
		ServerStartedAt: h.startedAt.UTC(),
	})
}

func (h *Handler) runProbes(ctx context.Context, probes []*probe) {
	var wg sync.WaitGroup
	for _, p := range probes {
		wg.Add(1)
		go func(p *probe) {
			defer wg.Done()
			p.value, p.err = h.device.ReadNumericSensor(ctx, p.sensor)
		}(p)
	}
	wg.Wait()
}
