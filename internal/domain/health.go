package domain

import (
	"context"

	"github.com/questx-lab/signal/internal/model"
	"github.com/questx-lab/signal/pkg/errorx"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/questx-lab/signal/pkg/xredis"
)

const (
	healthy      = "healthy"
	connected    = "connected"
	disconnected = "disconnected"
)

type HealthDomain interface {
	Health(context.Context, *model.HealthRequest) (*model.HealthResponse, error)
}

type healthDomain struct {
	redisClient xredis.Client
}

func NewHealthDomain(redisClient xredis.Client) HealthDomain {
	return &healthDomain{redisClient: redisClient}
}

// Health pings the database and the cache.
func (d *healthDomain) Health(ctx context.Context, req *model.HealthRequest) (*model.HealthResponse, error) {
	resp := &model.HealthResponse{Status: healthy, Database: connected, Cache: connected}

	if err := pingDB(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ping database: %v", err)
		resp.Database = disconnected
	}

	if err := d.redisClient.Ping(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ping cache: %v", err)
		resp.Cache = disconnected
	}

	if resp.Database != connected || resp.Cache != connected {
		return nil, errorx.New(errorx.Unavailable,
			"Service unhealthy: database %s, cache %s", resp.Database, resp.Cache)
	}

	return resp, nil
}

func pingDB(ctx context.Context) error {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return err
	}

	return db.PingContext(ctx)
}
