package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/chemlookup/pkg/common/code"
)

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	if len(data) == 0 {
		ReplyOk(ctx)
		return
	}
	ctx.JSON(http.StatusOK, &RespT[any]{Code: code.Success, Data: data[0]})
}

func ReplyOk(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, &RespT[any]{Code: code.Success})
}

// ReplyErr writes err as the response envelope. A trailing msg overrides
// the detail text.
func ReplyErr(ctx *gin.Context, err error, msg ...string) {
	c := code.Code(err)
	info := code.Msg(err)
	if len(msg) > 0 {
		info = msg[0]
	}

	ctx.JSON(httpStatus(err), &RespT[any]{
		Code: c,
		Error: &Error{
			Msg:  c.String(),
			Info: info,
		},
	})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, code.ParamErr),
		errors.Is(err, code.QueryInvalid),
		errors.Is(err, code.NamespaceInvalid),
		errors.Is(err, code.BatchEmptyErr):
		return http.StatusBadRequest
	case errors.Is(err, code.CompoundNotFound),
		errors.Is(err, code.RecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, code.StoreDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, code.RPCHttpErr),
		errors.Is(err, code.RPCHttpCodeErr),
		errors.Is(err, code.RPCHttpCodeRespErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
