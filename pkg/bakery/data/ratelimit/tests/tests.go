package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	"github.com/bakewell-bakery/bakewell-server/pkg/database/query"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

func RunTests(t *testing.T, s ratelimit.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ratelimit.Store){
		testRecordOrderHappyPath,
		testGetLastByIp,
		testGetAllByDate,
	} {
		tf(t, s)
		teardown()
	}
}

func testRecordOrderHappyPath(t *testing.T, s ratelimit.Store) {
	t.Run("testRecordOrderHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()
		time.Sleep(time.Millisecond)

		today := ratelimit.DayOf(time.Now())
		yesterday := today.Add(-24 * time.Hour)

		_, err := s.GetByPhoneAndDate(ctx, "+12223334444", today)
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)

		require.NoError(t, s.RecordOrder(ctx, "+12223334444", pointer.String("192.168.0.1")))

		actual, err := s.GetByPhoneAndDate(ctx, "+12223334444", today)
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.True(t, actual.Id > 0)
		assert.Equal(t, "+12223334444", actual.Phone)
		require.NotNil(t, actual.IpAddress)
		assert.Equal(t, "192.168.0.1", *actual.IpAddress)
		assert.Equal(t, today, actual.Date)
		assert.EqualValues(t, 1, actual.OrderCount)
		assert.True(t, actual.LastOrderAt.After(start))

		start = time.Now()
		time.Sleep(time.Millisecond)

		require.NoError(t, s.RecordOrder(ctx, "+12223334444", pointer.String("10.0.0.1")))
		require.NoError(t, s.RecordOrder(ctx, "+12223334444", pointer.String("10.0.0.1")))

		actual, err = s.GetByPhoneAndDate(ctx, "+12223334444", today)
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.EqualValues(t, 3, actual.OrderCount)
		require.NotNil(t, actual.IpAddress)
		assert.Equal(t, "10.0.0.1", *actual.IpAddress)
		assert.True(t, actual.LastOrderAt.After(start))

		_, err = s.GetByPhoneAndDate(ctx, "+12223334444", yesterday)
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)

		require.NoError(t, s.RecordOrder(ctx, "+15556667777", nil))

		actual, err = s.GetByPhoneAndDate(ctx, "+15556667777", today)
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.EqualValues(t, 1, actual.OrderCount)
		assert.Nil(t, actual.IpAddress)
	})
}

func testGetLastByIp(t *testing.T, s ratelimit.Store) {
	t.Run("testGetLastByIp", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetLastByIp(ctx, "192.168.0.1")
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)

		require.NoError(t, s.RecordOrder(ctx, "+12223334444", pointer.String("192.168.0.1")))

		time.Sleep(time.Millisecond)

		require.NoError(t, s.RecordOrder(ctx, "+15556667777", pointer.String("192.168.0.1")))

		actual, err := s.GetLastByIp(ctx, "192.168.0.1")
		require.NoError(t, err)
		require.NoError(t, actual.Validate())
		assert.Equal(t, "+15556667777", actual.Phone)

		_, err = s.GetLastByIp(ctx, "10.0.0.1")
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)
	})
}

func testGetAllByDate(t *testing.T, s ratelimit.Store) {
	t.Run("testGetAllByDate", func(t *testing.T) {
		ctx := context.Background()

		today := ratelimit.DayOf(time.Now())
		yesterday := today.Add(-24 * time.Hour)

		count, err := s.CountByDate(ctx, today)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		_, err = s.GetAllByDate(ctx, today, query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)

		phones := []string{
			"+12223334441",
			"+12223334442",
			"+12223334443",
			"+12223334444",
			"+12223334445",
		}
		for _, phone := range phones {
			require.NoError(t, s.RecordOrder(ctx, phone, pointer.String("192.168.0.1")))
		}

		count, err = s.CountByDate(ctx, today)
		require.NoError(t, err)
		assert.EqualValues(t, len(phones), count)

		count, err = s.CountByDate(ctx, yesterday)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)

		actual, err := s.GetAllByDate(ctx, today, query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, len(phones))
		for i, item := range actual {
			require.NoError(t, item.Validate())
			assert.Equal(t, phones[i], item.Phone)
		}

		actual, err = s.GetAllByDate(ctx, today, query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, phones[4], actual[0].Phone)
		assert.Equal(t, phones[3], actual[1].Phone)

		actual, err = s.GetAllByDate(ctx, today, query.ToCursor(actual[1].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.Equal(t, phones[2], actual[0].Phone)

		_, err = s.GetAllByDate(ctx, yesterday, query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)
	})
}
