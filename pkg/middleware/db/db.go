package db

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/lims/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level string
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

type txKey struct{}

type Datastore struct {
	db *gorm.DB
}

var ds *Datastore

func NewDatastore(d *gorm.DB) *Datastore {
	return &Datastore{db: d}
}

func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)
	d, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel(conf.LogConf.Level)),
	})
	if err != nil {
		logger.Fatalf(ctx, "open postgres err: %+v", err)
		return
	}
	if err := d.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.Fatalf(ctx, "install gorm tracing plugin err: %+v", err)
		return
	}
	sqlDB, err := d.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql db err: %+v", err)
		return
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ds = NewDatastore(d)
	logger.Infof(ctx, "postgres connected %s:%d/%s", conf.Host, conf.Port, conf.DBName)
}

func ClosePostgres(ctx context.Context) {
	if ds == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err != nil {
		logger.Errorf(ctx, "close postgres err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf(ctx, "close postgres err: %+v", err)
	}
}

// DB returns the process wide datastore, nil before InitPostgres.
func DB() *Datastore {
	return ds
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

// DBWithContext returns the transaction bound to ctx by ExecTx, or a new
// session on the pool.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn in a transaction. Nested calls join the outer transaction.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// ForUpdate locks the selected rows until the transaction ends. Dialects
// without row locks (sqlite) serialize writers already.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func logLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info", "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
