package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	pg "github.com/bakewell-bakery/bakewell-server/pkg/database/postgres"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"

	block_memory_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block/memory"
	order_memory_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order/memory"
	ratelimit_memory_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit/memory"

	block_postgres_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block/postgres"
	order_postgres_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order/postgres"
	ratelimit_postgres_client "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit/postgres"
)

type DatabaseData interface {
	// Blocks
	// --------------------------------------------------------------------------------
	CreateBlock(ctx context.Context, record *block.Record) error
	GetBlockById(ctx context.Context, id uint64) (*block.Record, error)
	GetActiveBlockByUser(ctx context.Context, user string) (*block.Record, error)
	GetActiveBlockByPhone(ctx context.Context, phone string) (*block.Record, error)
	GetActiveBlockByIp(ctx context.Context, ipAddress string) (*block.Record, error)
	SetBlockActive(ctx context.Context, id uint64, active bool) error
	GetActiveBlockCount(ctx context.Context) (uint64, error)
	GetAllBlocks(ctx context.Context, opts ...query.Option) ([]*block.Record, error)

	// Rate Limits
	// --------------------------------------------------------------------------------
	RecordOrderForRateLimiting(ctx context.Context, phone string, ipAddress *string) error
	GetRateLimitByPhoneAndDate(ctx context.Context, phone string, date time.Time) (*ratelimit.Record, error)
	GetLastRateLimitByIp(ctx context.Context, ipAddress string) (*ratelimit.Record, error)
	GetRateLimitCountByDate(ctx context.Context, date time.Time) (uint64, error)
	GetAllRateLimitsByDate(ctx context.Context, date time.Time, opts ...query.Option) ([]*ratelimit.Record, error)

	// Orders
	// --------------------------------------------------------------------------------
	CreateOrder(ctx context.Context, record *order.Record) error
	GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Record, error)
	UpdateOrder(ctx context.Context, record *order.Record) error
	GetOrderCountByUserAndStatus(ctx context.Context, user string, status order.Status) (uint64, error)
	GetAllOrdersByUser(ctx context.Context, user string, opts ...query.Option) ([]*order.Record, error)

	// ExecuteInTx executes fn with a single DB transaction that is scoped to the call.
	// This enables more complex transactions that can span many calls across the provider.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type DatabaseProvider struct {
	blocks     block.Store
	rateLimits ratelimit.Store
	orders     order.Store

	db *sqlx.DB
}

func NewDatabaseProvider(dbConfig *pg.Config) (DatabaseData, error) {
	db, err := pg.NewWithUsernameAndPassword(
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Host,
		fmt.Sprint(dbConfig.Port),
		dbConfig.DbName,
	)
	if err != nil {
		return nil, err
	}

	if dbConfig.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConnections)
	}
	if dbConfig.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConnections)
	}
	db.SetConnMaxIdleTime(time.Hour)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseProvider{
		blocks:     block_postgres_client.New(db),
		rateLimits: ratelimit_postgres_client.New(db),
		orders:     order_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

func NewTestDatabaseProvider() DatabaseData {
	return &DatabaseProvider{
		blocks:     block_memory_client.New(),
		rateLimits: ratelimit_memory_client.New(),
		orders:     order_memory_client.New(),
	}
}

func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	return pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
}

// Blocks
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateBlock(ctx context.Context, record *block.Record) error {
	return dp.blocks.Put(ctx, record)
}
func (dp *DatabaseProvider) GetBlockById(ctx context.Context, id uint64) (*block.Record, error) {
	return dp.blocks.GetById(ctx, id)
}
func (dp *DatabaseProvider) GetActiveBlockByUser(ctx context.Context, user string) (*block.Record, error) {
	return dp.blocks.GetActiveByUser(ctx, user)
}
func (dp *DatabaseProvider) GetActiveBlockByPhone(ctx context.Context, phone string) (*block.Record, error) {
	return dp.blocks.GetActiveByPhone(ctx, phone)
}
func (dp *DatabaseProvider) GetActiveBlockByIp(ctx context.Context, ipAddress string) (*block.Record, error) {
	return dp.blocks.GetActiveByIp(ctx, ipAddress)
}
func (dp *DatabaseProvider) SetBlockActive(ctx context.Context, id uint64, active bool) error {
	return dp.blocks.SetActive(ctx, id, active)
}
func (dp *DatabaseProvider) GetActiveBlockCount(ctx context.Context) (uint64, error) {
	return dp.blocks.CountActive(ctx)
}
func (dp *DatabaseProvider) GetAllBlocks(ctx context.Context, opts ...query.Option) ([]*block.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}

	return dp.blocks.GetAll(ctx, req.Cursor, req.Limit, req.SortBy)
}

// Rate Limits
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) RecordOrderForRateLimiting(ctx context.Context, phone string, ipAddress *string) error {
	return dp.rateLimits.RecordOrder(ctx, phone, ipAddress)
}
func (dp *DatabaseProvider) GetRateLimitByPhoneAndDate(ctx context.Context, phone string, date time.Time) (*ratelimit.Record, error) {
	return dp.rateLimits.GetByPhoneAndDate(ctx, phone, date)
}
func (dp *DatabaseProvider) GetLastRateLimitByIp(ctx context.Context, ipAddress string) (*ratelimit.Record, error) {
	return dp.rateLimits.GetLastByIp(ctx, ipAddress)
}
func (dp *DatabaseProvider) GetRateLimitCountByDate(ctx context.Context, date time.Time) (uint64, error) {
	return dp.rateLimits.CountByDate(ctx, date)
}
func (dp *DatabaseProvider) GetAllRateLimitsByDate(ctx context.Context, date time.Time, opts ...query.Option) ([]*ratelimit.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}

	return dp.rateLimits.GetAllByDate(ctx, date, req.Cursor, req.Limit, req.SortBy)
}

// Orders
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateOrder(ctx context.Context, record *order.Record) error {
	return dp.orders.Put(ctx, record)
}
func (dp *DatabaseProvider) GetOrderByNumber(ctx context.Context, orderNumber string) (*order.Record, error) {
	return dp.orders.GetByNumber(ctx, orderNumber)
}
func (dp *DatabaseProvider) UpdateOrder(ctx context.Context, record *order.Record) error {
	return dp.orders.Update(ctx, record)
}
func (dp *DatabaseProvider) GetOrderCountByUserAndStatus(ctx context.Context, user string, status order.Status) (uint64, error) {
	return dp.orders.CountByUserAndStatus(ctx, user, status)
}
func (dp *DatabaseProvider) GetAllOrdersByUser(ctx context.Context, user string, opts ...query.Option) ([]*order.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}

	return dp.orders.GetAllByUser(ctx, user, req.Cursor, req.Limit, req.SortBy)
}
