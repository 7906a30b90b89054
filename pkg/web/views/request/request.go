package request

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/request"
	"github.com/scienceol/lims/pkg/middleware/logger"
)

type Handle struct {
	rService request.Service
}

func NewRequestHandle(rService request.Service) *Handle {
	return &Handle{rService: rService}
}

// Create godoc
// @Summary  Create a reagent request
// @Tags     reagent-requests
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body  body      request.CreateReq  true  "request"
// @Success  200   {object}  common.Resp{data=model.ReagentRequest}
// @Router   /v1/reagent-requests [post]
func (h *Handle) Create(ctx *gin.Context) {
	req := &request.CreateReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse CreateRequest param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.rService.Create(ctx, req)
	common.Reply(ctx, err, resp)
}

// List godoc
// @Summary  List reagent requests, researchers see their own only
// @Tags     reagent-requests
// @Produce  json
// @Security BearerAuth
// @Param    skip               query  int     false  "offset"
// @Param    take               query  int     false  "page size"
// @Param    status             query  string  false  "status"
// @Param    name               query  string  false  "name contains"
// @Param    sortByQuantity     query  string  false  "asc or desc"
// @Param    sortByCreatedDate  query  string  false  "asc or desc"
// @Param    sortByUpdatedDate  query  string  false  "asc or desc"
// @Success  200  {object}  common.Resp{data=request.ListResp}
// @Router   /v1/reagent-requests [get]
func (h *Handle) List(ctx *gin.Context) {
	req := &request.ListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse ListRequests param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.rService.List(ctx, req)
	common.Reply(ctx, err, resp)
}

// Get godoc
// @Summary  Get a reagent request
// @Tags     reagent-requests
// @Produce  json
// @Security BearerAuth
// @Param    id   path      int  true  "request id"
// @Success  200  {object}  common.Resp{data=model.ReagentRequest}
// @Failure  403  {object}  common.Resp
// @Failure  404  {object}  common.Resp
// @Router   /v1/reagent-requests/{id} [get]
func (h *Handle) Get(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.rService.Get(ctx, id)
	common.Reply(ctx, err, resp)
}

// Edit godoc
// @Summary  Override status, comments, quantity or package of a request
// @Tags     reagent-requests
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path      int                true  "request id"
// @Param    body  body      request.EditReq    true  "patch"
// @Success  200   {object}  common.Resp{data=model.ReagentRequest}
// @Router   /v1/reagent-requests/{id} [patch]
func (h *Handle) Edit(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req := &request.EditReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse EditRequest param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.ID = id
	resp, err := h.rService.Edit(ctx, req)
	common.Reply(ctx, err, resp)
}

// UpdateOwn godoc
// @Summary  Edit one of your own Pending requests
// @Tags     reagent-requests
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path      int                 true  "request id"
// @Param    body  body      request.OwnEditReq  true  "patch"
// @Success  200   {object}  common.Resp{data=model.ReagentRequest}
// @Router   /v1/reagent-requests/{id}/own [patch]
func (h *Handle) UpdateOwn(ctx *gin.Context) {
	id, err := common.PathID(ctx, "id")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req := &request.OwnEditReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse UpdateOwnRequest param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.ID = id
	resp, err := h.rService.UpdateOwn(ctx, req)
	common.Reply(ctx, err, resp)
}

// LookupCAS godoc
// @Summary  Look up a compound on PubChem by CAS number
// @Tags     reagent-requests
// @Produce  json
// @Security BearerAuth
// @Param    cas  query     string  true  "CAS number"
// @Success  200  {object}  common.Resp{data=repo.CompoundInfo}
// @Router   /v1/reagent-requests/cas [get]
func (h *Handle) LookupCAS(ctx *gin.Context) {
	req := &request.CASReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.rService.LookupCAS(ctx, req.CAS)
	common.Reply(ctx, err, resp)
}
