package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*order.Record
	last    uint64
}

type ById []*order.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in memory order.Store
func New() order.Store {
	return &store{}
}

// Put implements order.Store.Put
func (s *store) Put(_ context.Context, data *order.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByNumber(data.OrderNumber) != nil {
		return order.ErrOrderExists
	}

	s.last++
	data.Id = s.last
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	data.LastUpdatedAt = data.CreatedAt

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

// GetByNumber implements order.Store.GetByNumber
func (s *store) GetByNumber(_ context.Context, orderNumber string) (*order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByNumber(orderNumber)
	if item == nil {
		return nil, order.ErrOrderNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// Update implements order.Store.Update
func (s *store) Update(_ context.Context, data *order.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByNumber(data.OrderNumber)
	if item == nil {
		return order.ErrOrderNotFound
	}

	s.last++
	item.Status = data.Status
	item.Notes = data.Notes
	item.LastUpdatedAt = time.Now()

	item.CopyTo(data)

	return nil
}

// CountByUserAndStatus implements order.Store.CountByUserAndStatus
func (s *store) CountByUserAndStatus(_ context.Context, user string, status order.Status) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res uint64
	for _, item := range s.records {
		if item.User == user && item.Status == status {
			res++
		}
	}
	return res, nil
}

// GetAllByUser implements order.Store.GetAllByUser
func (s *store) GetAllByUser(_ context.Context, user string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*order.Record, 0)
	for _, item := range s.records {
		if item.User == user {
			items = append(items, item)
		}
	}

	res := s.filter(items, cursor, limit, direction)
	if len(res) == 0 {
		return nil, order.ErrOrderNotFound
	}

	return res, nil
}

func (s *store) findByNumber(orderNumber string) *order.Record {
	for _, item := range s.records {
		if item.OrderNumber == orderNumber {
			return item
		}
	}
	return nil
}

func (s *store) filter(items []*order.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*order.Record {
	var start uint64

	start = 0
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*order.Record
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
