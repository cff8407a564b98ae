package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres block.Store
func New(db *sql.DB) block.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements block.Store.Put
func (s *store) Put(ctx context.Context, record *block.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	err = model.dbPut(ctx, s.db)
	if err != nil {
		return err
	}

	fromModel(model).CopyTo(record)
	return nil
}

// GetById implements block.Store.GetById
func (s *store) GetById(ctx context.Context, id uint64) (*block.Record, error) {
	model, err := dbGetById(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetActiveByUser implements block.Store.GetActiveByUser
func (s *store) GetActiveByUser(ctx context.Context, user string) (*block.Record, error) {
	model, err := dbGetActiveByUser(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetActiveByPhone implements block.Store.GetActiveByPhone
func (s *store) GetActiveByPhone(ctx context.Context, phone string) (*block.Record, error) {
	model, err := dbGetActiveByPhone(ctx, s.db, phone)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetActiveByIp implements block.Store.GetActiveByIp
func (s *store) GetActiveByIp(ctx context.Context, ipAddress string) (*block.Record, error) {
	model, err := dbGetActiveByIp(ctx, s.db, ipAddress)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// SetActive implements block.Store.SetActive
func (s *store) SetActive(ctx context.Context, id uint64, active bool) error {
	return dbSetActive(ctx, s.db, id, active)
}

// CountActive implements block.Store.CountActive
func (s *store) CountActive(ctx context.Context) (uint64, error) {
	return dbGetCountActive(ctx, s.db)
}

// GetAll implements block.Store.GetAll
func (s *store) GetAll(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*block.Record, error) {
	models, err := dbGetAll(ctx, s.db, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*block.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
