package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/core/notify/hub"
	"github.com/scienceol/lims/pkg/middleware/db"
)

const probeTimeout = 2 * time.Second

type Check struct {
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Handle struct {
	ds     *db.Datastore
	center notify.MsgCenter
	hub    *hub.Hub
}

func NewHealthHandle(ds *db.Datastore, center notify.MsgCenter, h *hub.Hub) *Handle {
	return &Handle{ds: ds, center: center, hub: h}
}

// Live reports the process is serving and how many order feeds are open.
func (h *Handle) Live(g *gin.Context) {
	sessions := 0
	if h.hub != nil {
		sessions = h.hub.Len()
	}
	g.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"orderFeedConns": sessions,
	})
}

// Ready fails while the database or the order event broker is unreachable.
func (h *Handle) Ready(g *gin.Context) {
	ctx, cancel := context.WithTimeout(g.Request.Context(), probeTimeout)
	defer cancel()

	checks := map[string]Check{
		"database":    h.database(ctx),
		"orderEvents": h.orderEvents(ctx),
	}
	status, msg := http.StatusOK, "ready"
	for _, c := range checks {
		if c.Status != "ok" {
			status, msg = http.StatusServiceUnavailable, "not_ready"
			break
		}
	}
	g.JSON(status, gin.H{
		"status": msg,
		"checks": checks,
	})
}

func (h *Handle) database(ctx context.Context) Check {
	if h.ds == nil {
		return Check{Status: "not_initialized"}
	}
	sqlDB, err := h.ds.DBIns().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return Check{Status: "unhealthy", Mode: h.ds.DBIns().Dialector.Name(), Error: err.Error()}
	}
	return Check{Status: "ok", Mode: h.ds.DBIns().Dialector.Name()}
}

func (h *Handle) orderEvents(ctx context.Context) Check {
	p, ok := h.center.(notify.Prober)
	if !ok {
		return Check{Status: "ok", Mode: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return Check{Status: "unhealthy", Mode: p.Mode(), Error: err.Error()}
	}
	return Check{Status: "ok", Mode: p.Mode()}
}
