package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres order.Store
func New(db *sql.DB) order.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements order.Store.Put
func (s *store) Put(ctx context.Context, record *order.Record) error {
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

// GetByNumber implements order.Store.GetByNumber
func (s *store) GetByNumber(ctx context.Context, orderNumber string) (*order.Record, error) {
	model, err := dbGetByNumber(ctx, s.db, orderNumber)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// Update implements order.Store.Update
func (s *store) Update(ctx context.Context, record *order.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	err = model.dbUpdate(ctx, s.db)
	if err != nil {
		return err
	}

	fromModel(model).CopyTo(record)
	return nil
}

// CountByUserAndStatus implements order.Store.CountByUserAndStatus
func (s *store) CountByUserAndStatus(ctx context.Context, user string, status order.Status) (uint64, error) {
	return dbGetCountByUserAndStatus(ctx, s.db, user, status)
}

// GetAllByUser implements order.Store.GetAllByUser
func (s *store) GetAllByUser(ctx context.Context, user string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*order.Record, error) {
	models, err := dbGetAllByUser(ctx, s.db, user, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*order.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
