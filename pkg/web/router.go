package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/internal/config"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/core/notify/events"
	"github.com/scienceol/lims/pkg/core/notify/hub"
	orderImpl "github.com/scienceol/lims/pkg/core/order/order"
	reagentImpl "github.com/scienceol/lims/pkg/core/reagent/reagent"
	requestImpl "github.com/scienceol/lims/pkg/core/request/request"
	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/middleware/metrics"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/pubchem"
	"github.com/scienceol/lims/pkg/web/views/health"
	notifyView "github.com/scienceol/lims/pkg/web/views/notify"
	orderView "github.com/scienceol/lims/pkg/web/views/order"
	reagentView "github.com/scienceol/lims/pkg/web/views/reagent"
	requestView "github.com/scienceol/lims/pkg/web/views/request"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type deps struct {
	ds       *db.Datastore
	center   notify.MsgCenter
	pubchem  repo.PubChemRepo
	enrich   bool
	poolSize int
}

type Option func(*deps)

func WithDatastore(ds *db.Datastore) Option {
	return func(d *deps) { d.ds = ds }
}

func WithMsgCenter(center notify.MsgCenter) Option {
	return func(d *deps) { d.center = center }
}

func WithPubChem(client repo.PubChemRepo, enrich bool) Option {
	return func(d *deps) {
		d.pubchem = client
		d.enrich = enrich
	}
}

func defaultDeps() *deps {
	conf := config.Global()
	return &deps{
		ds:       db.DB(),
		center:   events.NewEvents(),
		pubchem:  pubchem.New(conf.PubChem.Addr, time.Duration(conf.PubChem.Timeout)*time.Second),
		enrich:   conf.PubChem.Enrich,
		poolSize: conf.Notify.PoolSize,
	}
}

// NewRouter installs middleware and routes on g. The returned func releases
// the websocket hub.
func NewRouter(ctx context.Context, g *gin.Engine, opts ...Option) (context.CancelFunc, error) {
	d := defaultDeps()
	for _, opt := range opts {
		opt(d)
	}
	RegisterValidators()
	installMiddleware(g)
	return installURL(ctx, g, d)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(ctx context.Context, g *gin.Engine, d *deps) (context.CancelFunc, error) {
	httpMetrics := metrics.New(config.Global().Server.Platform)
	g.Use(httpMetrics.Middleware())
	g.GET("/metrics", httpMetrics.Handler())

	orderHubPool := d.poolSize
	if orderHubPool <= 0 {
		orderHubPool = 1
	}
	orderHub, err := hub.New(orderHubPool)
	if err != nil {
		return nil, err
	}
	nHandle, err := notifyView.NewNotifyHandle(ctx, d.center, orderHub)
	if err != nil {
		orderHub.Close()
		return nil, err
	}

	hHandle := health.NewHealthHandle(d.ds, d.center, orderHub)
	api := g.Group("/api")
	api.GET("/health", hHandle.Live)
	api.GET("/health/live", hHandle.Live)
	api.GET("/health/ready", hHandle.Ready)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	oHandle := orderView.NewOrderHandle(orderImpl.New(d.ds, d.center))
	rHandle := requestView.NewRequestHandle(requestImpl.New(d.ds, requestImpl.WithPubChem(d.pubchem, d.enrich)))
	reHandle := reagentView.NewReagentHandle(reagentImpl.New(d.ds))

	v1 := api.Group("/v1", auth.AuthWeb())
	{
		wsRouter := v1.Group("/ws")
		wsRouter.GET("/orders", auth.Require(auth.ObjOrder, common.Read), nHandle.Orders)
	}

	{
		orderRouter := v1.Group("/orders")
		orderRouter.POST("", auth.Require(auth.ObjOrder, common.Create), oHandle.Create)
		orderRouter.GET("", auth.Require(auth.ObjOrder, common.Read), oHandle.List)
		orderRouter.GET("/:id", auth.Require(auth.ObjOrder, common.Read), oHandle.Get)
		orderRouter.PATCH("/:id", auth.Require(auth.ObjOrder, common.Update), oHandle.Update)
		orderRouter.GET("/:id/history", auth.Require(auth.ObjOrder, common.Read), oHandle.History)
	}

	{
		requestRouter := v1.Group("/reagent-requests")
		requestRouter.POST("", auth.Require(auth.ObjRequest, common.Create), rHandle.Create)
		requestRouter.GET("", auth.Require(auth.ObjRequest, common.Read), rHandle.List)
		requestRouter.GET("/cas", auth.Require(auth.ObjCAS, common.Read), rHandle.LookupCAS)
		requestRouter.GET("/:id", auth.Require(auth.ObjRequest, common.Read), rHandle.Get)
		requestRouter.PATCH("/:id", auth.Require(auth.ObjRequest, common.Update), rHandle.Edit)
		requestRouter.PATCH("/:id/own", auth.Require(auth.ObjRequest, common.UpdateOwn), rHandle.UpdateOwn)
	}

	{
		reagentRouter := v1.Group("/reagents")
		reagentRouter.POST("/reagent-request/:reagentRequestId/:storageId",
			auth.Require(auth.ObjReagent, common.Create), reHandle.CreateFromRequest)
	}

	return func() {
		if err := nHandle.Close(); err != nil {
			logger.Warnf(ctx, "close order websocket err: %+v", err)
		}
		orderHub.Close()
	}, nil
}
