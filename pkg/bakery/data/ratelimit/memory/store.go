package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

type store struct {
	mu      sync.Mutex
	records []*ratelimit.Record
	last    uint64
}

type ById []*ratelimit.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in memory ratelimit.Store
func New() ratelimit.Store {
	return &store{}
}

// RecordOrder implements ratelimit.Store.RecordOrder
func (s *store) RecordOrder(_ context.Context, phone string, ipAddress *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	today := ratelimit.DayOf(now)

	item := s.findByPhoneAndDate(phone, today)
	if item != nil {
		item.OrderCount++
		item.IpAddress = pointer.StringCopy(ipAddress)
		item.LastOrderAt = now
	} else {
		s.last++
		s.records = append(s.records, &ratelimit.Record{
			Id: s.last,

			Phone:     phone,
			IpAddress: pointer.StringCopy(ipAddress),

			Date:        today,
			OrderCount:  1,
			LastOrderAt: now,
		})
	}

	return nil
}

// GetByPhoneAndDate implements ratelimit.Store.GetByPhoneAndDate
func (s *store) GetByPhoneAndDate(_ context.Context, phone string, date time.Time) (*ratelimit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByPhoneAndDate(phone, ratelimit.DayOf(date))
	if item == nil {
		return nil, ratelimit.ErrRateLimitNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetLastByIp implements ratelimit.Store.GetLastByIp
func (s *store) GetLastByIp(_ context.Context, ipAddress string) (*ratelimit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *ratelimit.Record
	for _, item := range s.records {
		if item.IpAddress == nil || *item.IpAddress != ipAddress {
			continue
		}

		if res == nil || item.LastOrderAt.After(res.LastOrderAt) {
			res = item
		}
	}

	if res == nil {
		return nil, ratelimit.ErrRateLimitNotFound
	}

	cloned := res.Clone()
	return &cloned, nil
}

// CountByDate implements ratelimit.Store.CountByDate
func (s *store) CountByDate(_ context.Context, date time.Time) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uint64(len(s.findByDate(ratelimit.DayOf(date)))), nil
}

// GetAllByDate implements ratelimit.Store.GetAllByDate
func (s *store) GetAllByDate(_ context.Context, date time.Time, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*ratelimit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.findByDate(ratelimit.DayOf(date))
	res := s.filter(items, cursor, limit, direction)
	if len(res) == 0 {
		return nil, ratelimit.ErrRateLimitNotFound
	}

	return res, nil
}

func (s *store) findByPhoneAndDate(phone string, date time.Time) *ratelimit.Record {
	for _, item := range s.records {
		if item.Phone == phone && item.Date.Equal(date) {
			return item
		}
	}
	return nil
}

func (s *store) findByDate(date time.Time) []*ratelimit.Record {
	res := make([]*ratelimit.Record, 0)
	for _, item := range s.records {
		if item.Date.Equal(date) {
			res = append(res, item)
		}
	}
	return res
}

func (s *store) filter(items []*ratelimit.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*ratelimit.Record {
	var start uint64

	start = 0
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*ratelimit.Record
	for _, item := range items {
		if item.Id > start && direction == query.Ascending {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
		if item.Id < start && direction == query.Descending {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if direction == query.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	}

	if len(res) >= int(limit) {
		return res[:limit]
	}

	return res
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}
