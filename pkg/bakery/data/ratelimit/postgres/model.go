package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	pgutil "github.com/bakewell-bakery/bakewell-server/pkg/database/postgres"
	q "github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

const (
	tableName = "bakewell__core_orderratelimit"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Phone     string         `db:"phone"`
	IpAddress sql.NullString `db:"ip_address"`

	Date        time.Time `db:"for_date"`
	OrderCount  uint64    `db:"order_count"`
	LastOrderAt time.Time `db:"last_order_at"`
}

func fromModel(obj *model) *ratelimit.Record {
	return &ratelimit.Record{
		Id: uint64(obj.Id.Int64),

		Phone:     obj.Phone,
		IpAddress: pointer.StringIfValid(obj.IpAddress.Valid, obj.IpAddress.String),

		Date:        obj.Date.UTC(),
		OrderCount:  obj.OrderCount,
		LastOrderAt: obj.LastOrderAt,
	}
}

func dbRecordOrder(ctx context.Context, db *sqlx.DB, phone string, ipAddress *string) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		now := time.Now()

		var ip sql.NullString
		if ipAddress != nil {
			ip = sql.NullString{String: *ipAddress, Valid: true}
		}

		query := `INSERT INTO ` + tableName + `
			(phone, ip_address, for_date, order_count, last_order_at)
			VALUES ($1, $2, $3, 1, $4)

			ON CONFLICT (phone, for_date)
			DO UPDATE
				SET order_count = ` + tableName + `.order_count + 1, ip_address = $2, last_order_at = $4
				WHERE ` + tableName + `.phone = $1 AND ` + tableName + `.for_date = $3

			RETURNING
				id, phone, ip_address, for_date, order_count, last_order_at`

		_, err := tx.ExecContext(
			ctx,
			query,
			phone,
			ip,
			ratelimit.DayOf(now),
			now,
		)
		return err
	})
}

func dbGetByPhoneAndDate(ctx context.Context, db *sqlx.DB, phone string, date time.Time) (*model, error) {
	res := &model{}

	query := `SELECT id, phone, ip_address, for_date, order_count, last_order_at FROM ` + tableName + `
		WHERE phone = $1 AND for_date = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, phone, ratelimit.DayOf(date))
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ratelimit.ErrRateLimitNotFound)
	}
	return res, nil
}

func dbGetLastByIp(ctx context.Context, db *sqlx.DB, ipAddress string) (*model, error) {
	res := &model{}

	query := `SELECT id, phone, ip_address, for_date, order_count, last_order_at FROM ` + tableName + `
		WHERE ip_address = $1
		ORDER BY last_order_at DESC
		LIMIT 1`

	err := db.GetContext(ctx, res, query, ipAddress)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ratelimit.ErrRateLimitNotFound)
	}
	return res, nil
}

func dbGetCountByDate(ctx context.Context, db *sqlx.DB, date time.Time) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE for_date = $1`
	err := db.GetContext(ctx, &res, query, ratelimit.DayOf(date))
	if err != nil {
		return 0, err
	}

	return res, nil
}

func dbGetAllByDate(ctx context.Context, db *sqlx.DB, date time.Time, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, phone, ip_address, for_date, order_count, last_order_at FROM ` + tableName + `
		WHERE (for_date = $1)
	`

	opts := []interface{}{ratelimit.DayOf(date)}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ratelimit.ErrRateLimitNotFound)
	}

	if len(res) == 0 {
		return nil, ratelimit.ErrRateLimitNotFound
	}

	return res, nil
}
