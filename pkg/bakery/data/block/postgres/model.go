package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	pgutil "github.com/bakewell-bakery/bakewell-server/pkg/database/postgres"
	q "github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

const (
	tableName = "bakewell__core_blockeduser"
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	User      sql.NullString `db:"blocked_user"`
	Phone     string         `db:"phone"`
	IpAddress sql.NullString `db:"ip_address"`

	Reason uint   `db:"reason"`
	Notes  string `db:"notes"`

	IsActive bool `db:"is_active"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *block.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now()
	}

	var user, ip sql.NullString
	if obj.User != nil {
		user = sql.NullString{String: *obj.User, Valid: true}
	}
	if obj.IpAddress != nil {
		ip = sql.NullString{String: *obj.IpAddress, Valid: true}
	}

	return &model{
		User:      user,
		Phone:     obj.Phone,
		IpAddress: ip,

		Reason: uint(obj.Reason),
		Notes:  obj.Notes,

		IsActive: obj.IsActive,

		CreatedAt: obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *block.Record {
	return &block.Record{
		Id: uint64(obj.Id.Int64),

		User:      pointer.StringIfValid(obj.User.Valid, obj.User.String),
		Phone:     obj.Phone,
		IpAddress: pointer.StringIfValid(obj.IpAddress.Valid, obj.IpAddress.String),

		Reason: block.Reason(obj.Reason),
		Notes:  obj.Notes,

		IsActive: obj.IsActive,

		CreatedAt: obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(blocked_user, phone, ip_address, reason, notes, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING
				id, blocked_user, phone, ip_address, reason, notes, is_active, created_at`

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.User,
			m.Phone,
			m.IpAddress,
			m.Reason,
			m.Notes,
			m.IsActive,
			m.CreatedAt,
		).StructScan(m)
		return pgutil.CheckUniqueViolation(err, block.ErrBlockExists)
	})
}

func dbGetById(ctx context.Context, db *sqlx.DB, id uint64) (*model, error) {
	res := &model{}

	query := `SELECT id, blocked_user, phone, ip_address, reason, notes, is_active, created_at FROM ` + tableName + `
		WHERE id = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, id)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, block.ErrBlockNotFound)
	}
	return res, nil
}

func dbGetActiveByUser(ctx context.Context, db *sqlx.DB, user string) (*model, error) {
	return dbGetLastActiveWhere(ctx, db, "blocked_user = $1", user)
}

func dbGetActiveByPhone(ctx context.Context, db *sqlx.DB, phone string) (*model, error) {
	return dbGetLastActiveWhere(ctx, db, "phone = $1 AND phone <> ''", phone)
}

func dbGetActiveByIp(ctx context.Context, db *sqlx.DB, ipAddress string) (*model, error) {
	return dbGetLastActiveWhere(ctx, db, "ip_address = $1", ipAddress)
}

func dbGetLastActiveWhere(ctx context.Context, db *sqlx.DB, condition string, arg interface{}) (*model, error) {
	res := &model{}

	query := `SELECT id, blocked_user, phone, ip_address, reason, notes, is_active, created_at FROM ` + tableName + `
		WHERE is_active AND ` + condition + `
		ORDER BY id DESC
		LIMIT 1`

	err := db.GetContext(ctx, res, query, arg)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, block.ErrBlockNotFound)
	}
	return res, nil
}

func dbSetActive(ctx context.Context, db *sqlx.DB, id uint64, active bool) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `UPDATE ` + tableName + `
			SET is_active = $2
			WHERE id = $1
			RETURNING id`

		var updated uint64
		err := tx.QueryRowxContext(ctx, query, id, active).Scan(&updated)
		return pgutil.CheckNoRows(err, block.ErrBlockNotFound)
	})
}

func dbGetCountActive(ctx context.Context, db *sqlx.DB) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE is_active`
	err := db.GetContext(ctx, &res, query)
	if err != nil {
		return 0, err
	}

	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT id, blocked_user, phone, ip_address, reason, notes, is_active, created_at FROM ` + tableName + `
		WHERE TRUE
	`

	opts := []interface{}{}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, block.ErrBlockNotFound)
	}

	if len(res) == 0 {
		return nil, block.ErrBlockNotFound
	}

	return res, nil
}
