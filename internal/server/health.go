package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"
)

// healthHandler reports profile store, model backend and host status.
// The store health decides the HTTP status; host metrics are best effort.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		mu     sync.Mutex
		store  map[string]string
		system = map[string]interface{}{}
	)

	g, grpCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h := s.db.Health(grpCtx)
		mu.Lock()
		store = h
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		v, err := mem.VirtualMemoryWithContext(grpCtx)
		if err != nil {
			return nil
		}
		mu.Lock()
		system["ram_usage"] = fmt.Sprintf("%.1f%%", v.UsedPercent)
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		cpuPercent, err := cpu.PercentWithContext(grpCtx, 0, false)
		if err != nil || len(cpuPercent) == 0 {
			return nil
		}
		mu.Lock()
		system["cpu_load"] = fmt.Sprintf("%.1f%%", cpuPercent[0])
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		hInfo, err := host.InfoWithContext(grpCtx)
		if err != nil {
			return nil
		}
		mu.Lock()
		system["os"] = hInfo.OS
		system["platform"] = hInfo.Platform
		system["hostname"] = hInfo.Hostname
		mu.Unlock()
		return nil
	})

	_ = g.Wait()

	system["uptime"] = time.Since(s.startTime).Round(time.Second).String()

	status := http.StatusOK
	overall := "ok"
	if store["status"] != "up" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, map[string]interface{}{
		"status": overall,
		"store":  store,
		"model":  s.model.Status(),
		"system": system,
	})
}
