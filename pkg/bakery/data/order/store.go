package order

import (
	"context"
	"errors"

	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

var (
	ErrOrderNotFound = errors.New("order record not found")
	ErrOrderExists   = errors.New("order record already exists")
)

type Store interface {
	// Put creates a new order record. ErrOrderExists is returned on a
	// duplicate order number.
	Put(ctx context.Context, record *Record) error

	// GetByNumber gets an order record by its order number
	GetByNumber(ctx context.Context, orderNumber string) (*Record, error)

	// Update saves an order record's mutable fields (status and notes) and
	// bumps the last updated timestamp. ErrOrderNotFound is returned for an
	// unknown order number.
	Update(ctx context.Context, record *Record) error

	// CountByUserAndStatus counts a user's orders in a given status
	CountByUserAndStatus(ctx context.Context, user string, status Status) (uint64, error)

	// GetAllByUser gets a page of a user's order records. ErrOrderNotFound
	// is returned if no records are available.
	GetAllByUser(ctx context.Context, user string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}
