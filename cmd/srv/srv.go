package main

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/internal/domain"
	"github.com/questx-lab/signal/internal/domain/badge"
	"github.com/questx-lab/signal/internal/domain/identity"
	"github.com/questx-lab/signal/internal/domain/missionclaim"
	"github.com/questx-lab/signal/internal/domain/nonce"
	"github.com/questx-lab/signal/internal/domain/rank"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/authenticator"
	"github.com/questx-lab/signal/pkg/blockchain/eth"
	"github.com/questx-lab/signal/pkg/logger"
	"github.com/questx-lab/signal/pkg/prometheus"
	"github.com/questx-lab/signal/pkg/router"
	"github.com/questx-lab/signal/pkg/token"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/questx-lab/signal/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo               repository.UserRepository
	missionRepo            repository.MissionRepository
	userMissionRepo        repository.UserMissionRepository
	badgeRepo              repository.BadgeRepository
	userBadgeRepo          repository.UserBadgeRepository
	walletRegistrationRepo repository.WalletRegistrationRepository

	userRegistry *domain.UserRegistry

	authDomain    domain.AuthDomain
	userDomain    domain.UserDomain
	missionDomain domain.MissionDomain
	badgeDomain   domain.BadgeDomain
	healthDomain  domain.HealthDomain

	redisClient xredis.Client
	ethClient   eth.EthClient

	router *router.Router
}

// loadContext builds the root context shared by every command.
func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Env != "local")
	if err != nil {
		return err
	}

	tokenEngine, err := token.NewEngine(cfg.Auth.TokenSecret)
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, log)
	s.ctx = xcontext.WithTokenEngine(s.ctx, tokenEngine)
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: 10 * time.Second})
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadEthClient() {
	ethClient := eth.NewEthClient(xcontext.Configs(s.ctx).Eth)
	ethClient.Start(s.ctx)
	s.ethClient = ethClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.missionRepo = repository.NewMissionRepository()
	s.userMissionRepo = repository.NewUserMissionRepository()
	s.badgeRepo = repository.NewBadgeRepository()
	s.userBadgeRepo = repository.NewUserBadgeRepository()
	s.walletRegistrationRepo = repository.NewWalletRegistrationRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	rankTable, err := rank.NewTable(cfg.Rank.Tiers)
	if err != nil {
		panic(err)
	}

	s.userRegistry = domain.NewUserRegistry(s.userRepo, rankTable)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.userRegistry)
	s.badgeDomain = domain.NewBadgeDomain(s.badgeRepo, s.userBadgeRepo)
	s.healthDomain = domain.NewHealthDomain(s.redisClient)
	s.missionDomain = domain.NewMissionDomain(
		s.userRepo,
		s.missionRepo,
		s.userMissionRepo,
		s.badgeRepo,
		s.userRegistry,
		badge.NewRegistry(s.badgeRepo, s.userBadgeRepo),
		missionclaim.NewRegistry(),
	)
	s.authDomain = domain.NewAuthDomain(
		s.userRepo,
		nonce.NewStore(s.redisClient),
		identity.NewGenerator(identity.OptionsFromConfig(cfg.Identity), s.userRepo),
		s.userRegistry,
		s.missionDomain,
		authenticator.NewOAuth2Service(cfg.Auth.X),
		s.redisClient,
	)
}

// startPrometheus serves the metrics on their own port.
func (s *srv) startPrometheus() {
	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    cfg.PrometheusServer.Address(),
		Handler: prometheus.NewHandler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting prometheus on port: %s", cfg.PrometheusServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		xcontext.Logger(s.ctx).Errorf("Server prometheus stop: %v", err)
	}
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
