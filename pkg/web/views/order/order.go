package order

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/order"
	"github.com/scienceol/lims/pkg/middleware/logger"
)

type Handle struct {
	oService order.Service
}

func NewOrderHandle(oService order.Service) *Handle {
	return &Handle{oService: oService}
}

// Create godoc
// @Summary      Create an order from Pending reagent requests
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      order.CreateReq  true  "order"
// @Success      200   {object}  common.Resp{data=model.Order}
// @Failure      404   {object}  common.Resp
// @Failure      409   {object}  common.Resp
// @Router       /v1/orders [post]
func (h *Handle) Create(ctx *gin.Context) {
	req := &order.CreateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateOrder param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.oService.Create(ctx, req)
	common.Reply(ctx, err, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        skip         query  int     false  "offset"
// @Param        take         query  int     false  "page size"
// @Param        title        query  string  false  "title contains"
// @Param        seller       query  string  false  "seller contains"
// @Param        status       query  string  false  "status"
// @Param        updatedAt    query  string  false  "asc or desc"
// @Param        createdAt    query  string  false  "asc or desc"
// @Param        titleOrder   query  string  false  "asc or desc"
// @Param        sellerOrder  query  string  false  "asc or desc"
// @Success      200  {object}  common.Resp{data=order.ListResp}
// @Router       /v1/orders [get]
func (h *Handle) List(ctx *gin.Context) {
	req := &order.ListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse ListOrders param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.oService.List(ctx, req)
	common.Reply(ctx, err, resp)
}

// Get godoc
// @Summary      Get an order with its reagent requests
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "order id"
// @Success      200  {object}  common.Resp{data=model.Order}
// @Failure      404  {object}  common.Resp
// @Router       /v1/orders/{id} [get]
func (h *Handle) Get(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.oService.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

// Update godoc
// @Summary      Update an order
// @Description  Pending orders may be edited and submitted. Submitted orders only accept Fulfilled or Declined.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "order id"
// @Param        body  body      order.UpdateReq  true  "patch"
// @Success      200   {object}  common.Resp{data=model.Order}
// @Failure      400   {object}  common.Resp
// @Failure      404   {object}  common.Resp
// @Router       /v1/orders/{id} [patch]
func (h *Handle) Update(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req := &order.UpdateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse UpdateOrder param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.ID = id
	resp, err := h.oService.Update(ctx, req)
	common.Reply(ctx, err, resp)
}

// History godoc
// @Summary      List the change history of an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "order id"
// @Success      200  {object}  common.Resp{data=[]model.OrderHistory}
// @Router       /v1/orders/{id}/history [get]
func (h *Handle) History(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.oService.History(ctx, id)
	common.Reply(ctx, err, resp)
}
