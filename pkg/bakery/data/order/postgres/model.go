package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	pgutil "github.com/bakewell-bakery/bakewell-server/pkg/database/postgres"
	q "github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

const (
	tableName = "bakewell__core_order"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	OrderNumber string `db:"order_number"`

	User      string         `db:"ordering_user"`
	Phone     string         `db:"phone"`
	IpAddress sql.NullString `db:"ip_address"`

	Address string `db:"address"`
	Notes   string `db:"notes"`

	TotalCents uint64 `db:"total_cents"`

	Status uint `db:"status"`

	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *order.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now()
	}

	var ip sql.NullString
	if obj.IpAddress != nil {
		ip = sql.NullString{String: *obj.IpAddress, Valid: true}
	}

	return &model{
		OrderNumber: obj.OrderNumber,

		User:      obj.User,
		Phone:     obj.Phone,
		IpAddress: ip,

		Address: obj.Address,
		Notes:   obj.Notes,

		TotalCents: obj.TotalCents,

		Status: uint(obj.Status),

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *order.Record {
	return &order.Record{
		Id: uint64(obj.Id.Int64),

		OrderNumber: obj.OrderNumber,

		User:      obj.User,
		Phone:     obj.Phone,
		IpAddress: pointer.StringIfValid(obj.IpAddress.Valid, obj.IpAddress.String),

		Address: obj.Address,
		Notes:   obj.Notes,

		TotalCents: obj.TotalCents,

		Status: order.Status(obj.Status),

		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(order_number, ordering_user, phone, ip_address, address, notes, total_cents, status, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING
				id, order_number, ordering_user, phone, ip_address, address, notes, total_cents, status, created_at, last_updated_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.OrderNumber,
			m.User,
			m.Phone,
			m.IpAddress,
			m.Address,
			m.Notes,
			m.TotalCents,
			m.Status,
			m.CreatedAt,
			m.LastUpdatedAt,
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, order.ErrOrderExists)
	})
}

func (m *model) dbUpdate(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET status = $2, notes = $3, last_updated_at = $4
			WHERE order_number = $1
			RETURNING
				id, order_number, ordering_user, phone, ip_address, address, notes, total_cents, status, created_at, last_updated_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.OrderNumber,
			m.Status,
			m.Notes,
			time.Now(),
		).StructScan(m)
		return pgutil.CheckNoRows(err, order.ErrOrderNotFound)
	})
}

func dbGetByNumber(ctx context.Context, db *sqlx.DB, orderNumber string) (*model, error) {
	res := &model{}

	query := `SELECT id, order_number, ordering_user, phone, ip_address, address, notes, total_cents, status, created_at, last_updated_at FROM ` + tableName + `
		WHERE order_number = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, orderNumber)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, order.ErrOrderNotFound)
	}
	return res, nil
}

func dbGetCountByUserAndStatus(ctx context.Context, db *sqlx.DB, user string, status order.Status) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE ordering_user = $1 AND status = $2`
	err := db.GetContext(ctx, &res, query, user, uint(status))
	if err != nil {
		return 0, err
	}

	return res, nil
}

func dbGetAllByUser(ctx context.Context, db *sqlx.DB, user string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, order_number, ordering_user, phone, ip_address, address, notes, total_cents, status, created_at, last_updated_at FROM ` + tableName + `
		WHERE (ordering_user = $1)
	`

	opts := []interface{}{user}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, order.ErrOrderNotFound)
	}

	if len(res) == 0 {
		return nil, order.ErrOrderNotFound
	}

	return res, nil
}
