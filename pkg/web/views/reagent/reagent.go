package reagent

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/core/reagent"
)

type Handle struct {
	rService reagent.Service
}

func NewReagentHandle(rService reagent.Service) *Handle {
	return &Handle{rService: rService}
}

// CreateFromRequest godoc
// @Summary  Stock a Fulfilled reagent request into storage
// @Tags     reagents
// @Produce  json
// @Security BearerAuth
// @Param    reagentRequestId  path      int  true  "request id"
// @Param    storageId         path      int  true  "storage id"
// @Success  200  {object}  common.Resp{data=model.Reagent}
// @Failure  400  {object}  common.Resp
// @Failure  404  {object}  common.Resp
// @Router   /v1/reagents/reagent-request/{reagentRequestId}/{storageId} [post]
func (h *Handle) CreateFromRequest(ctx *gin.Context) {
	requestID, err := common.PathID(ctx, "reagentRequestId")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	storageID, err := common.PathID(ctx, "storageId")
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.rService.CreateFromRequest(ctx, &reagent.FromRequestReq{
		ReagentRequestID: requestID,
		StorageID:        storageID,
	})
	common.Reply(ctx, err, resp)
}
