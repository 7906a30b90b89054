package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/core/notify/hub"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downBroker struct {
	notify.MsgCenter
}

func (downBroker) Mode() string { return "redis" }

func (downBroker) Ping(context.Context) error { return errors.New("connection refused") }

type readyBody struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks"`
}

func ready(t *testing.T, ds *db.Datastore, center notify.MsgCenter) (int, readyBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h, err := hub.New(1)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	g := gin.New()
	g.GET("/ready", NewHealthHandle(ds, center, h).Ready)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body readyBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestReadyReportsEventMode(t *testing.T) {
	status, body := ready(t, dbtest.New(t), notify.NewLocal())
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, Check{Status: "ok", Mode: "sqlite"}, body.Checks["database"])
	assert.Equal(t, Check{Status: "ok", Mode: "local"}, body.Checks["orderEvents"])

	_, body = ready(t, dbtest.New(t), notify.Nop())
	assert.Equal(t, "disabled", body.Checks["orderEvents"].Mode)
}

func TestReadyFailsOnBrokerOutage(t *testing.T) {
	status, body := ready(t, dbtest.New(t), downBroker{})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, Check{Status: "unhealthy", Mode: "redis", Error: "connection refused"}, body.Checks["orderEvents"])
}

func TestReadyWithoutDatabase(t *testing.T) {
	status, body := ready(t, nil, notify.NewLocal())
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not_initialized", body.Checks["database"].Status)
}

func TestLiveCountsOrderFeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, err := hub.New(1)
	require.NoError(t, err)
	defer h.Close()
	h.Join(&hub.Client{ID: "a", Send: func([]byte) error { return nil }})

	g := gin.New()
	g.GET("/live", NewHealthHandle(nil, notify.NewLocal(), h).Live)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","orderFeedConns":1}`, w.Body.String())
}
