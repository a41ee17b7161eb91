package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/logger"
	"github.com/questx-lab/signal/pkg/token"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockConfigs returns the default configuration with test secrets.
func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Project.Name = "Signal"
	cfg.Project.FrontendURL = "http://frontend.test"
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.SessionToken.Expiration = time.Minute
	cfg.Auth.X.ClientID = "client-id"
	cfg.Auth.X.ClientSecret = "client-secret"
	cfg.Auth.X.CallbackURL = "http://api.test/api/v1/auth/x/callback"
	return cfg
}

// MockContext returns a context carrying an isolated in-memory database with
// all tables migrated, the test configs, a silent logger and a token engine.
func MockContext() context.Context {
	// Each context owns a distinct shared-cache database, so tests never see
	// each other's rows while connections of one test share the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := MockConfigs()
	tokenEngine, err := token.NewEngine(cfg.Auth.TokenSecret)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithTokenEngine(ctx, tokenEngine)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
