package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres ratelimit.Store
func New(db *sql.DB) ratelimit.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// RecordOrder implements ratelimit.Store.RecordOrder
func (s *store) RecordOrder(ctx context.Context, phone string, ipAddress *string) error {
	return dbRecordOrder(ctx, s.db, phone, ipAddress)
}

// GetByPhoneAndDate implements ratelimit.Store.GetByPhoneAndDate
func (s *store) GetByPhoneAndDate(ctx context.Context, phone string, date time.Time) (*ratelimit.Record, error) {
	model, err := dbGetByPhoneAndDate(ctx, s.db, phone, date)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// GetLastByIp implements ratelimit.Store.GetLastByIp
func (s *store) GetLastByIp(ctx context.Context, ipAddress string) (*ratelimit.Record, error) {
	model, err := dbGetLastByIp(ctx, s.db, ipAddress)
	if err != nil {
		return nil, err
	}
	return fromModel(model), nil
}

// CountByDate implements ratelimit.Store.CountByDate
func (s *store) CountByDate(ctx context.Context, date time.Time) (uint64, error) {
	return dbGetCountByDate(ctx, s.db, date)
}

// GetAllByDate implements ratelimit.Store.GetAllByDate
func (s *store) GetAllByDate(ctx context.Context, date time.Time, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*ratelimit.Record, error) {
	models, err := dbGetAllByDate(ctx, s.db, date, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*ratelimit.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}
