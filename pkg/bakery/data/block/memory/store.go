package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*block.Record
	last    uint64
}

type ById []*block.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in memory block.Store
func New() block.Store {
	return &store{}
}

// Put implements block.Store.Put
func (s *store) Put(_ context.Context, data *block.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if data.User != nil {
		for _, item := range s.records {
			if item.User != nil && *item.User == *data.User && item.Reason == data.Reason {
				return block.ErrBlockExists
			}
		}
	}

	s.last++
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	data.Id = s.last

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

// GetById implements block.Store.GetById
func (s *store) GetById(_ context.Context, id uint64) (*block.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Id == id {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, block.ErrBlockNotFound
}

// GetActiveByUser implements block.Store.GetActiveByUser
func (s *store) GetActiveByUser(_ context.Context, user string) (*block.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findActive(func(item *block.Record) bool {
		return item.User != nil && *item.User == user
	})
}

// GetActiveByPhone implements block.Store.GetActiveByPhone
func (s *store) GetActiveByPhone(_ context.Context, phone string) (*block.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findActive(func(item *block.Record) bool {
		return len(item.Phone) > 0 && item.Phone == phone
	})
}

// GetActiveByIp implements block.Store.GetActiveByIp
func (s *store) GetActiveByIp(_ context.Context, ipAddress string) (*block.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findActive(func(item *block.Record) bool {
		return item.IpAddress != nil && *item.IpAddress == ipAddress
	})
}

// SetActive implements block.Store.SetActive
func (s *store) SetActive(_ context.Context, id uint64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Id == id {
			item.IsActive = active
			return nil
		}
	}
	return block.ErrBlockNotFound
}

// CountActive implements block.Store.CountActive
func (s *store) CountActive(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res uint64
	for _, item := range s.records {
		if item.IsActive {
			res++
		}
	}
	return res, nil
}

// GetAll implements block.Store.GetAll
func (s *store) GetAll(_ context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*block.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.filter(s.records, cursor, limit, direction)
	if len(res) == 0 {
		return nil, block.ErrBlockNotFound
	}

	return res, nil
}

func (s *store) findActive(match func(*block.Record) bool) (*block.Record, error) {
	var res *block.Record
	for _, item := range s.records {
		if !item.IsActive || !match(item) {
			continue
		}

		if res == nil || item.Id > res.Id {
			res = item
		}
	}

	if res == nil {
		return nil, block.ErrBlockNotFound
	}

	cloned := res.Clone()
	return &cloned, nil
}

func (s *store) filter(items []*block.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*block.Record {
	var start uint64

	start = 0
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*block.Record
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
