package main

import (
	"net/http"
	"time"

	"github.com/questx-lab/signal/internal/middleware"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const rateLimitCleanupInterval = time.Minute

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()

	rateLimiter := s.newRateLimiter(xcontext.Configs(s.ctx).RateLimit.DefaultPerMinute)
	s.loadRouter(rateLimiter)

	go s.startPrometheus()
	go rateLimiter.StartCleanup(s.ctx, rateLimitCleanupInterval)

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: middleware.AllowCors(cfg.Cors.AllowedOrigins, s.router.Handler()),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		xcontext.Logger(s.ctx).Errorf("Server api stop: %v", err)
		return err
	}

	return nil
}

func (s *srv) newRateLimiter(perMinute int) *middleware.RateLimiter {
	cfg := xcontext.Configs(s.ctx).RateLimit
	return middleware.NewRateLimiter(perMinute, cfg.Burst, cfg.IdleTimeout)
}

func (s *srv) loadRouter(rateLimiter *middleware.RateLimiter) {
	s.router = router.New(s.ctx)
	if err := s.router.SetTrustedProxies(xcontext.Configs(s.ctx).RateLimit.TrustedProxies); err != nil {
		panic(err)
	}
	s.router.Before(middleware.WithStartTime(), middleware.WithRequestID())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	router.GET(s.router, "/health", s.healthDomain.Health)

	apiRouter := s.router.Group("/api/v1")
	apiRouter.Before(rateLimiter.Middleware())

	// Public API
	publicRouter := apiRouter.Branch()
	{
		router.GET(publicRouter, "/health", s.healthDomain.Health)
		router.GET(publicRouter, "/auth/challenge", s.authDomain.RequestChallenge)
		router.POST(publicRouter, "/auth/connect", s.authDomain.Connect)
	}

	// The provider redirects the browser here, the response is a redirect to
	// the frontend.
	callbackRouter := apiRouter.Branch()
	callbackRouter.After(middleware.HandleRedirect())
	{
		router.GET(callbackRouter, "/auth/x/callback", s.authDomain.HandleLinkCallback)
	}

	// These following APIs need authentication with the session token.
	authRouter := apiRouter.Branch()
	authRouter.Before(middleware.NewAuthVerifier(s.userRepo).Middleware())
	{
		router.GET(authRouter, "/auth/x/link", s.authDomain.InitiateLink)

		router.GET(authRouter, "/users/me", s.userDomain.GetMe)
		router.POST(authRouter, "/users/me", s.userDomain.UpdateProfile)
		router.GET(authRouter, "/users/me/allies", s.userDomain.ListAllies)
		router.GET(authRouter, "/users/me/badges", s.badgeDomain.UserBadges)

		router.GET(authRouter, "/missions", s.missionDomain.DirectivesForUser)
		router.GET(authRouter, "/missions/summary", s.missionDomain.MissionProgressSummary)
		router.POST(authRouter, "/missions/complete", s.missionDomain.CompleteMission)
	}
}
