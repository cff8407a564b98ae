package block

import (
	"context"
	"errors"

	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

var (
	ErrBlockNotFound = errors.New("block record not found")
	ErrBlockExists   = errors.New("block record already exists")
)

type Store interface {
	// Put creates a new block record. ErrBlockExists is returned when the
	// record references a user that already has a block entry for the same
	// reason, regardless of whether that entry is still active.
	Put(ctx context.Context, record *Record) error

	// GetById gets a block record by its id
	GetById(ctx context.Context, id uint64) (*Record, error)

	// GetActiveByUser gets the most recent active block record for a user
	GetActiveByUser(ctx context.Context, user string) (*Record, error)

	// GetActiveByPhone gets the most recent active block record for a phone
	// number
	GetActiveByPhone(ctx context.Context, phone string) (*Record, error)

	// GetActiveByIp gets the most recent active block record for an IP
	// address
	GetActiveByIp(ctx context.Context, ipAddress string) (*Record, error)

	// SetActive toggles a block record's active flag. ErrBlockNotFound is
	// returned for an unknown id.
	SetActive(ctx context.Context, id uint64, active bool) error

	// CountActive counts the active block records
	CountActive(ctx context.Context) (uint64, error)

	// GetAll gets a page of block records. ErrBlockNotFound is returned if
	// no records are available.
	GetAll(ctx context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}
