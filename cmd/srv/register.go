package main

import (
	"net/http"

	"github.com/questx-lab/signal/internal/domain"
	"github.com/questx-lab/signal/internal/middleware"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// startRegister runs the airdrop registration service. It shares the database
// and cache with the api but none of its routes.
func (s *srv) startRegister(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadEthClient()
	defer s.ethClient.Close()

	cfg := xcontext.Configs(s.ctx)
	registrationDomain := domain.NewRegistrationDomain(
		repository.NewWalletRegistrationRepository(),
		s.ethClient,
		s.redisClient,
	)
	healthDomain := domain.NewHealthDomain(s.redisClient)

	rateLimiter := s.newRateLimiter(cfg.RateLimit.RegisterPerMinute)
	go rateLimiter.StartCleanup(s.ctx, rateLimitCleanupInterval)

	r := router.New(s.ctx)
	if err := r.SetTrustedProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return err
	}
	r.Before(middleware.WithStartTime(), middleware.WithRequestID())
	r.AddCloser(middleware.Logger())
	r.AddCloser(middleware.Prometheus())

	router.GET(r, "/health", healthDomain.Health)

	registerRouter := r.Branch()
	registerRouter.Before(rateLimiter.Middleware())
	router.POST(registerRouter, "/register", registrationDomain.Register)

	go s.startPrometheus()

	httpSrv := &http.Server{
		Addr:    cfg.RegisterServer.Address(),
		Handler: middleware.AllowCors(cfg.Cors.AllowedOrigins, r.Handler()),
	}

	xcontext.Logger(s.ctx).Infof("Starting register server on port: %s", cfg.RegisterServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		xcontext.Logger(s.ctx).Errorf("Server register stop: %v", err)
		return err
	}

	return nil
}
