package order

import (
	"errors"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusPreparing
	StatusDelivered
	StatusCancelled
)

// Record is a single customer order placed at checkout.
type Record struct {
	Id uint64

	OrderNumber string

	User      string
	Phone     string
	IpAddress *string

	Address string
	Notes   string

	TotalCents uint64

	Status Status

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.OrderNumber) == 0 {
		return errors.New("order number is required")
	}

	if len(r.User) == 0 {
		return errors.New("user is required")
	}

	if len(r.Phone) == 0 {
		return errors.New("phone is required")
	}

	switch r.Status {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered, StatusCancelled:
	default:
		return errors.New("invalid order status")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		OrderNumber: r.OrderNumber,

		User:      r.User,
		Phone:     r.Phone,
		IpAddress: pointer.StringCopy(r.IpAddress),

		Address: r.Address,
		Notes:   r.Notes,

		TotalCents: r.TotalCents,

		Status: r.Status,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.OrderNumber = r.OrderNumber

	dst.User = r.User
	dst.Phone = r.Phone
	dst.IpAddress = pointer.StringCopy(r.IpAddress)

	dst.Address = r.Address
	dst.Notes = r.Notes

	dst.TotalCents = r.TotalCents

	dst.Status = r.Status

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusPreparing:
		return "preparing"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}
