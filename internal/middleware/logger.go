package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/idutil"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/xcontext"
)

// WithRequestID tags the logger of the request with a fresh request id.
func WithRequestID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		id := idutil.RequestID()
		ctx = xcontext.WithRequestID(ctx, id)
		ctx = xcontext.WithLogger(ctx, xcontext.Logger(ctx).With("request_id", id))
		return ctx, nil
	}
}

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d: %v", info, -1, err)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
