package ratelimit

import (
	"errors"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

// Record tracks order activity for a single phone number on a single
// calendar day.
type Record struct {
	Id uint64

	Phone     string
	IpAddress *string

	Date        time.Time
	OrderCount  uint64
	LastOrderAt time.Time
}

// DayOf truncates a timestamp to its UTC calendar day
func DayOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (r *Record) Validate() error {
	if len(r.Phone) == 0 {
		return errors.New("phone is required")
	}

	if r.Date.IsZero() {
		return errors.New("date is required")
	}

	if r.OrderCount == 0 {
		return errors.New("order count must be positive")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Phone:     r.Phone,
		IpAddress: pointer.StringCopy(r.IpAddress),

		Date:        r.Date,
		OrderCount:  r.OrderCount,
		LastOrderAt: r.LastOrderAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Phone = r.Phone
	dst.IpAddress = pointer.StringCopy(r.IpAddress)

	dst.Date = r.Date
	dst.OrderCount = r.OrderCount
	dst.LastOrderAt = r.LastOrderAt
}
