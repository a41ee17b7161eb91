package router

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores, afters, closers := router.befores, router.afters, router.closers
	return func(gctx *gin.Context) {
		var ctx context.Context = requestContext{Context: gctx.Request.Context(), values: router.root}
		ctx = xcontext.WithHTTPRequest(ctx, gctx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, gctx.Writer)
		ctx = xcontext.WithClientIP(ctx, gctx.ClientIP())

		var err error
		for _, before := range befores {
			if ctx, err = runMiddleware(ctx, before); err != nil {
				break
			}
		}

		if err == nil {
			var req Request
			if err = bind(gctx, method, &req); err == nil {
				var resp *Response
				resp, err = handler(ctx, &req)
				if err == nil && resp != nil {
					ctx = xcontext.WithResponse(ctx, resp)
				}
			}
		}

		if err == nil {
			for _, after := range afters {
				if ctx, err = runMiddleware(ctx, after); err != nil {
					break
				}
			}
		}

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(gctx, err)
		} else if resp := xcontext.Response(ctx); resp != nil {
			gctx.JSON(http.StatusOK, newResponse(resp))
		}

		for _, closer := range *closers {
			closer(ctx)
		}
	}
}

// runMiddleware keeps the previous context when the middleware fails.
func runMiddleware(ctx context.Context, middleware MiddlewareFunc) (context.Context, error) {
	newCtx, err := middleware(ctx)
	if err != nil || newCtx == nil {
		return ctx, err
	}

	return newCtx, nil
}

func bind(gctx *gin.Context, method string, req any) error {
	var err error
	switch method {
	case http.MethodGet:
		err = gctx.ShouldBindWith(req, binding.Query)
	case http.MethodPost:
		err = gctx.ShouldBindJSON(req)
		if errors.Is(err, io.EOF) {
			// Empty body is allowed for requests without fields.
			err = nil
		}
	default:
		err = errors.New("unsupported method")
	}

	if err != nil {
		return errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	return nil
}
