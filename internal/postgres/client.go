package postgres

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/config"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// IClient is the narrow database surface repositories depend on. Querier
// returns the ambient transaction when one is carried in the context, so
// repository code is oblivious to transaction boundaries.
type IClient interface {
	Querier(ctx context.Context) *gorm.DB
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	TryAdvisoryLock(ctx context.Context, key string) (bool, error)
}

type txKey struct{}

// Client wraps a gorm DB handle.
type Client struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewClient opens a Postgres connection and configures the pool.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Map driver unique-violation errors to gorm.ErrDuplicatedKey so
		// repositories can mark them ErrAlreadyExists.
		TranslateError: true,
	}
	if cfg.Logging.Level == "debug" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), gormCfg)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to postgres").
			WithReportableDetails(map[string]interface{}{
				"host":   cfg.Postgres.Host,
				"dbname": cfg.Postgres.DBName,
			}).
			Mark(ierr.ErrDatabase)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to access underlying sql.DB").
			Mark(ierr.ErrDatabase)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	return &Client{db: db, logger: log}, nil
}

// AutoMigrate creates or updates tables for the given models.
func (c *Client) AutoMigrate(models ...interface{}) error {
	if err := c.db.AutoMigrate(models...); err != nil {
		return ierr.WithError(err).
			WithHint("Schema migration failed").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// Querier returns the transaction bound to the context, or the base handle.
func (c *Client) Querier(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return c.db.WithContext(ctx)
}

// WithTx runs fn inside a transaction. The transaction handle travels in the
// context so nested repository calls join it; any error rolls everything back.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// already inside a transaction; join it
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Close releases the connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
