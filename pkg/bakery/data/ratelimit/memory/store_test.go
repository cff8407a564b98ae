package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit/tests"
)

func TestRateLimitMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}

func TestRecordOrderIdAssignment(t *testing.T) {
	testStore := New()
	ctx := context.Background()

	// Incrementing an existing record doesn't consume an id
	require.NoError(t, testStore.RecordOrder(ctx, "+12223334444", nil))
	require.NoError(t, testStore.RecordOrder(ctx, "+12223334444", nil))
	require.NoError(t, testStore.RecordOrder(ctx, "+15556667777", nil))

	first, err := testStore.GetByPhoneAndDate(ctx, "+12223334444", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Id)
	assert.EqualValues(t, 2, first.OrderCount)

	second, err := testStore.GetByPhoneAndDate(ctx, "+15556667777", time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Id)
}
