package block

import (
	"errors"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

type Reason uint8

const (
	ReasonUnknown Reason = iota
	ReasonCancelledOrders
	ReasonSpam
	ReasonManual
)

// Record marks a single blocked identity. An identity is any combination of
// a user, a phone number and an IP address. Blocks are deactivated rather
// than deleted so the history is preserved.
type Record struct {
	Id uint64

	User      *string
	Phone     string
	IpAddress *string

	Reason Reason
	Notes  string

	IsActive bool

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if r.User == nil && len(r.Phone) == 0 && r.IpAddress == nil {
		return errors.New("at least one of user, phone or ip address is required")
	}

	if r.User != nil && len(*r.User) == 0 {
		return errors.New("user cannot be empty when set")
	}

	if r.IpAddress != nil && len(*r.IpAddress) == 0 {
		return errors.New("ip address cannot be empty when set")
	}

	switch r.Reason {
	case ReasonCancelledOrders, ReasonSpam, ReasonManual:
	default:
		return errors.New("invalid block reason")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		User:      pointer.StringCopy(r.User),
		Phone:     r.Phone,
		IpAddress: pointer.StringCopy(r.IpAddress),

		Reason: r.Reason,
		Notes:  r.Notes,

		IsActive: r.IsActive,

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.User = pointer.StringCopy(r.User)
	dst.Phone = r.Phone
	dst.IpAddress = pointer.StringCopy(r.IpAddress)

	dst.Reason = r.Reason
	dst.Notes = r.Notes

	dst.IsActive = r.IsActive

	dst.CreatedAt = r.CreatedAt
}

func (r Reason) String() string {
	switch r {
	case ReasonCancelledOrders:
		return "cancelled"
	case ReasonSpam:
		return "spam"
	case ReasonManual:
		return "manual"
	}
	return "unknown"
}
