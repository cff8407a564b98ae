package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

var (
	ErrRateLimitNotFound = errors.New("rate limit record not found")
)

type Store interface {
	// RecordOrder atomically increments the order count for the phone number
	// on the current UTC day, updating the last seen IP and order timestamp.
	// The first order of the day creates the record.
	RecordOrder(ctx context.Context, phone string, ipAddress *string) error

	// GetByPhoneAndDate gets the rate limit record for a phone number on a
	// calendar day. ErrRateLimitNotFound indicates no orders were placed.
	GetByPhoneAndDate(ctx context.Context, phone string, date time.Time) (*Record, error)

	// GetLastByIp gets the rate limit record with the most recent order
	// placed from an IP address.
	GetLastByIp(ctx context.Context, ipAddress string) (*Record, error)

	// CountByDate counts the number of phone numbers with order activity on
	// a calendar day.
	CountByDate(ctx context.Context, date time.Time) (uint64, error)

	// GetAllByDate gets a page of rate limit records for a calendar day.
	// ErrRateLimitNotFound is returned if no records are available.
	GetAllByDate(ctx context.Context, date time.Time, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}
