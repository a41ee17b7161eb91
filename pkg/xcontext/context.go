package xcontext

import (
	"context"
	"net/http"

	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/pkg/logger"
	"github.com/questx-lab/signal/pkg/token"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	tokenEngineKey   struct{}
	httpClientKey    struct{}
	requestUserIDKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewNopLogger()
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// dbTransaction is shared by every context derived from the one which began
// it, so finishing it through any of them is seen by all.
type dbTransaction struct {
	tx       *gorm.DB
	finished bool
}

// DB returns the running transaction if there is one, otherwise the root
// database handle bound to ctx.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.finished {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. Callers must finish it with
// WithCommitDBTransaction or WithRollbackDBTransaction.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.finished {
		return ctx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: db.Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.finished {
		return ctx
	}

	t.finished = true
	if err := t.tx.Commit().Error; err != nil {
		Logger(ctx).Errorf("Cannot commit transaction: %v", err)
	}

	return ctx
}

// WithRollbackDBTransaction does nothing when the transaction has been
// committed or rolled back, through ctx or any context sharing it.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.finished {
		return ctx
	}

	t.finished = true
	t.tx.Rollback()
	return ctx
}

func WithTokenEngine(ctx context.Context, engine token.Engine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) token.Engine {
	engine, _ := ctx.Value(tokenEngineKey{}).(token.Engine)
	return engine
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok {
		return http.DefaultClient
	}

	return client
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}
