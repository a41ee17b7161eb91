package router

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/signal/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.Code.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return errorx.Unknown.Code.HTTPStatus(), response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeError(gctx *gin.Context, err error) {
	status, resp := newErrorResponse(err)
	gctx.JSON(status, resp)
}
