package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

func RunTests(t *testing.T, s order.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s order.Store){
		testPutHappyPath,
		testUpdate,
		testCountByUserAndStatus,
		testGetAllByUser,
	} {
		tf(t, s)
		teardown()
	}
}

func testPutHappyPath(t *testing.T, s order.Store) {
	t.Run("testPutHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		time.Sleep(time.Millisecond)

		_, err := s.GetByNumber(ctx, "BWL1A2B3C4D")
		assert.Equal(t, order.ErrOrderNotFound, err)

		record := &order.Record{
			OrderNumber: "BWL1A2B3C4D",

			User:      "customer@example.com",
			Phone:     "+12223334444",
			IpAddress: pointer.String("192.168.0.1"),

			Address: "1 High Street",
			Notes:   "no nuts please",

			TotalCents: 2450,

			Status: order.StatusPending,
		}
		require.NoError(t, s.Put(ctx, record))
		assert.True(t, record.Id > 0)
		assert.True(t, record.CreatedAt.After(start))
		assert.Equal(t, record.CreatedAt, record.LastUpdatedAt)

		actual, err := s.GetByNumber(ctx, "BWL1A2B3C4D")
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.Equal(t, record.Id, actual.Id)
		assert.Equal(t, "customer@example.com", actual.User)
		assert.Equal(t, "+12223334444", actual.Phone)
		require.NotNil(t, actual.IpAddress)
		assert.Equal(t, "192.168.0.1", *actual.IpAddress)
		assert.Equal(t, "1 High Street", actual.Address)
		assert.Equal(t, "no nuts please", actual.Notes)
		assert.EqualValues(t, 2450, actual.TotalCents)
		assert.Equal(t, order.StatusPending, actual.Status)

		assert.Equal(t, order.ErrOrderExists, s.Put(ctx, &order.Record{
			OrderNumber: "BWL1A2B3C4D",
			User:        "other@example.com",
			Phone:       "+15556667777",
			Status:      order.StatusPending,
		}))

		assert.Error(t, s.Put(ctx, &order.Record{
			OrderNumber: "BWL5E6F7A8B",
			User:        "customer@example.com",
			Phone:       "+12223334444",
			Status:      order.StatusUnknown,
		}))
	})
}

func testUpdate(t *testing.T, s order.Store) {
	t.Run("testUpdate", func(t *testing.T) {
		ctx := context.Background()

		record := &order.Record{
			OrderNumber: "BWL1A2B3C4D",
			User:        "customer@example.com",
			Phone:       "+12223334444",
			Status:      order.StatusPending,
		}

		assert.Equal(t, order.ErrOrderNotFound, s.Update(ctx, record))

		require.NoError(t, s.Put(ctx, record))

		start := time.Now()
		time.Sleep(time.Millisecond)

		record.Status = order.StatusCancelled
		record.Notes = "customer changed their mind"
		require.NoError(t, s.Update(ctx, record))
		assert.True(t, record.LastUpdatedAt.After(start))

		actual, err := s.GetByNumber(ctx, "BWL1A2B3C4D")
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.Equal(t, order.StatusCancelled, actual.Status)
		assert.Equal(t, "customer changed their mind", actual.Notes)
		assert.True(t, actual.LastUpdatedAt.After(start))
		assert.True(t, actual.CreatedAt.Before(start))
	})
}

func testCountByUserAndStatus(t *testing.T, s order.Store) {
	t.Run("testCountByUserAndStatus", func(t *testing.T) {
		ctx := context.Background()

		count, err := s.CountByUserAndStatus(ctx, "customer@example.com", order.StatusCancelled)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		for i, status := range []order.Status{
			order.StatusCancelled,
			order.StatusCancelled,
			order.StatusDelivered,
			order.StatusPending,
		} {
			require.NoError(t, s.Put(ctx, &order.Record{
				OrderNumber: fmt.Sprintf("BWL0000000%d", i),
				User:        "customer@example.com",
				Phone:       "+12223334444",
				Status:      status,
			}))
		}
		require.NoError(t, s.Put(ctx, &order.Record{
			OrderNumber: "BWL11111111",
			User:        "other@example.com",
			Phone:       "+15556667777",
			Status:      order.StatusCancelled,
		}))

		count, err = s.CountByUserAndStatus(ctx, "customer@example.com", order.StatusCancelled)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		count, err = s.CountByUserAndStatus(ctx, "customer@example.com", order.StatusDelivered)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		count, err = s.CountByUserAndStatus(ctx, "other@example.com", order.StatusCancelled)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func testGetAllByUser(t *testing.T, s order.Store) {
	t.Run("testGetAllByUser", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByUser(ctx, "customer@example.com", query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, order.ErrOrderNotFound, err)

		var orderNumbers []string
		for i := 0; i < 5; i++ {
			orderNumber := fmt.Sprintf("BWL0000000%d", i)
			orderNumbers = append(orderNumbers, orderNumber)
			require.NoError(t, s.Put(ctx, &order.Record{
				OrderNumber: orderNumber,
				User:        "customer@example.com",
				Phone:       "+12223334444",
				Status:      order.StatusPending,
			}))
		}
		require.NoError(t, s.Put(ctx, &order.Record{
			OrderNumber: "BWL11111111",
			User:        "other@example.com",
			Phone:       "+15556667777",
			Status:      order.StatusPending,
		}))

		actual, err := s.GetAllByUser(ctx, "customer@example.com", query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, len(orderNumbers))
		for i, item := range actual {
			require.NoError(t, item.Validate())
			assert.Equal(t, orderNumbers[i], item.OrderNumber)
		}

		actual, err = s.GetAllByUser(ctx, "customer@example.com", query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, orderNumbers[4], actual[0].OrderNumber)

		actual, err = s.GetAllByUser(ctx, "customer@example.com", query.ToCursor(actual[1].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.Equal(t, orderNumbers[2], actual[0].OrderNumber)
	})
}
