package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)
		method := xcontext.HTTPRequest(ctx).Method

		code := 0
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			} else {
				code = -1
			}
		}

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(method, fmt.Sprint(code)).Inc()

		if !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(method, fmt.Sprint(code)).Observe(time.Since(startTime).Seconds())
		}
	}
}
