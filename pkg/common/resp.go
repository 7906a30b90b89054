package common

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common/code"
)

type Error struct {
	Msg     string   `json:"msg"`
	Details []string `json:"details,omitempty"`
}

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Data  any          `json:"data,omitempty"`
	Error *Error       `json:"error,omitempty"`
}

// Reply writes data on success, otherwise the error envelope.
func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(code.Success.HTTPStatus(), resp)
}

func ReplyOk(ctx *gin.Context, data ...any) {
	Reply(ctx, nil, data...)
}

// ReplyErr maps err to its status code. Extra msgs replace the code's
// default message.
func ReplyErr(ctx *gin.Context, err error, msgs ...string) {
	c, msg, details := code.Parse(err)
	if len(msgs) > 0 {
		msg = msgs[0]
		details = append(details, msgs[1:]...)
	}
	ctx.JSON(c.HTTPStatus(), &Resp{
		Code: c,
		Error: &Error{
			Msg:     msg,
			Details: details,
		},
	})
}
