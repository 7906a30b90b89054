package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common/code"
)

// PathID reads a positive integer path parameter.
func PathID(ctx *gin.Context, name string) (int64, error) {
	value := ctx.Param(name)
	if value == "" {
		return 0, code.ParamErr.WithMsg("Value is required.")
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, code.ParamErr.WithMsgf(`Invalid value for parameter "%s": "%s" is not a valid id.`, name, value)
	}
	return id, nil
}
