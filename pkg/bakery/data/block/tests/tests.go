package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

func RunTests(t *testing.T, s block.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s block.Store){
		testPutHappyPath,
		testGetActiveByIdentity,
		testSetActive,
		testGetAll,
	} {
		tf(t, s)
		teardown()
	}
}

func testPutHappyPath(t *testing.T, s block.Store) {
	t.Run("testPutHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		time.Sleep(time.Millisecond)

		record := &block.Record{
			User:      pointer.String("customer@example.com"),
			Phone:     "+12223334444",
			Reason:    block.ReasonCancelledOrders,
			Notes:     "auto-blocked after 3 cancellations",
			IsActive:  true,
		}
		require.NoError(t, s.Put(ctx, record))
		assert.True(t, record.Id > 0)
		assert.True(t, record.CreatedAt.After(start))

		actual, err := s.GetById(ctx, record.Id)
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		require.NotNil(t, actual.User)
		assert.Equal(t, "customer@example.com", *actual.User)
		assert.Equal(t, "+12223334444", actual.Phone)
		assert.Nil(t, actual.IpAddress)
		assert.Equal(t, block.ReasonCancelledOrders, actual.Reason)
		assert.Equal(t, "auto-blocked after 3 cancellations", actual.Notes)
		assert.True(t, actual.IsActive)

		// A second block for the same user and reason is rejected, even when
		// the original entry has been deactivated
		require.NoError(t, s.SetActive(ctx, record.Id, false))
		assert.Equal(t, block.ErrBlockExists, s.Put(ctx, &block.Record{
			User:     pointer.String("customer@example.com"),
			Reason:   block.ReasonCancelledOrders,
			IsActive: true,
		}))

		// A different reason for the same user is a new entry
		require.NoError(t, s.Put(ctx, &block.Record{
			User:     pointer.String("customer@example.com"),
			Reason:   block.ReasonManual,
			IsActive: true,
		}))

		// Records without a user never conflict
		require.NoError(t, s.Put(ctx, &block.Record{
			Phone:    "+15556667777",
			Reason:   block.ReasonSpam,
			IsActive: true,
		}))
		require.NoError(t, s.Put(ctx, &block.Record{
			Phone:    "+15556667777",
			Reason:   block.ReasonSpam,
			IsActive: true,
		}))

		assert.Error(t, s.Put(ctx, &block.Record{Reason: block.ReasonManual}))

		_, err = s.GetById(ctx, 12345)
		assert.Equal(t, block.ErrBlockNotFound, err)
	})
}

func testGetActiveByIdentity(t *testing.T, s block.Store) {
	t.Run("testGetActiveByIdentity", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetActiveByUser(ctx, "customer@example.com")
		assert.Equal(t, block.ErrBlockNotFound, err)
		_, err = s.GetActiveByPhone(ctx, "+12223334444")
		assert.Equal(t, block.ErrBlockNotFound, err)
		_, err = s.GetActiveByIp(ctx, "192.168.0.1")
		assert.Equal(t, block.ErrBlockNotFound, err)

		require.NoError(t, s.Put(ctx, &block.Record{
			User:      pointer.String("customer@example.com"),
			Phone:     "+12223334444",
			IpAddress: pointer.String("192.168.0.1"),
			Reason:    block.ReasonSpam,
			IsActive:  true,
		}))

		actual, err := s.GetActiveByUser(ctx, "customer@example.com")
		require.NoError(t, err)
		assert.Equal(t, block.ReasonSpam, actual.Reason)

		actual, err = s.GetActiveByPhone(ctx, "+12223334444")
		require.NoError(t, err)
		assert.Equal(t, block.ReasonSpam, actual.Reason)

		actual, err = s.GetActiveByIp(ctx, "192.168.0.1")
		require.NoError(t, err)
		assert.Equal(t, block.ReasonSpam, actual.Reason)

		// A record with an empty phone never matches another empty phone
		require.NoError(t, s.Put(ctx, &block.Record{
			IpAddress: pointer.String("10.0.0.1"),
			Reason:    block.ReasonManual,
			IsActive:  true,
		}))
		_, err = s.GetActiveByPhone(ctx, "")
		assert.Equal(t, block.ErrBlockNotFound, err)

		// The most recent active entry wins
		require.NoError(t, s.Put(ctx, &block.Record{
			User:     pointer.String("customer@example.com"),
			Reason:   block.ReasonManual,
			Notes:    "repeat offender",
			IsActive: true,
		}))
		actual, err = s.GetActiveByUser(ctx, "customer@example.com")
		require.NoError(t, err)
		assert.Equal(t, block.ReasonManual, actual.Reason)
	})
}

func testSetActive(t *testing.T, s block.Store) {
	t.Run("testSetActive", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, block.ErrBlockNotFound, s.SetActive(ctx, 12345, false))

		record := &block.Record{
			Phone:    "+12223334444",
			Reason:   block.ReasonSpam,
			IsActive: true,
		}
		require.NoError(t, s.Put(ctx, record))

		count, err := s.CountActive(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		require.NoError(t, s.SetActive(ctx, record.Id, false))

		_, err = s.GetActiveByPhone(ctx, "+12223334444")
		assert.Equal(t, block.ErrBlockNotFound, err)

		count, err = s.CountActive(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		// Deactivated entries are kept for history and can be re-enabled
		actual, err := s.GetById(ctx, record.Id)
		require.NoError(t, err)
		assert.False(t, actual.IsActive)

		require.NoError(t, s.SetActive(ctx, record.Id, true))

		actual, err = s.GetActiveByPhone(ctx, "+12223334444")
		require.NoError(t, err)
		assert.Equal(t, record.Id, actual.Id)
	})
}

func testGetAll(t *testing.T, s block.Store) {
	t.Run("testGetAll", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAll(ctx, query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, block.ErrBlockNotFound, err)

		phones := []string{
			"+12223334441",
			"+12223334442",
			"+12223334443",
			"+12223334444",
			"+12223334445",
		}
		for _, phone := range phones {
			require.NoError(t, s.Put(ctx, &block.Record{
				Phone:    phone,
				Reason:   block.ReasonManual,
				IsActive: true,
			}))
		}

		actual, err := s.GetAll(ctx, query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, len(phones))
		for i, item := range actual {
			require.NoError(t, item.Validate())
			assert.Equal(t, phones[i], item.Phone)
		}

		actual, err = s.GetAll(ctx, query.EmptyCursor, 3, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.Equal(t, phones[4], actual[0].Phone)

		actual, err = s.GetAll(ctx, query.ToCursor(actual[2].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, phones[1], actual[0].Phone)
	})
}
