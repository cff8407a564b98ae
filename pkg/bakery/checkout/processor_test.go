package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/antispam"
	bakery_data "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

type testEnv struct {
	ctx       context.Context
	processor *Processor
	data      bakery_data.Provider
}

func setup(t *testing.T, overrides *testOverrides) (env testEnv) {
	env.ctx = context.Background()
	env.data = bakery_data.NewTestDataProvider()
	env.processor = NewProcessor(
		env.data,
		antispam.NewGuard(env.data),
		withManualTestOverrides(overrides),
	)

	return env
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	env := setup(t, &testOverrides{})

	record, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
		User:      "customer@example.com",
		Phone:     "+1 (222) 333-4444",
		IpAddress: pointer.String("192.168.0.1"),

		Address: "1 High Street",
		Notes:   "no nuts please",

		TotalCents: 2450,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(record.OrderNumber, "BWL"))
	assert.Len(t, record.OrderNumber, 11)
	assert.Equal(t, record.OrderNumber, strings.ToUpper(record.OrderNumber))
	assert.Equal(t, order.StatusPending, record.Status)
	assert.Equal(t, "+12223334444", record.Phone)

	actual, err := env.data.GetOrderByNumber(env.ctx, record.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, record.Id, actual.Id)

	// Exactly one rate limit increment was recorded for the sanitized phone
	rateLimitRecord, err := env.data.GetRateLimitByPhoneAndDate(env.ctx, "+12223334444", ratelimit.DayOf(record.CreatedAt))
	require.NoError(t, err)
	assert.EqualValues(t, 1, rateLimitRecord.OrderCount)
}

func TestPlaceOrder_InvalidPhoneNumber(t *testing.T) {
	env := setup(t, &testOverrides{})

	_, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
		User:  "customer@example.com",
		Phone: "not a phone number",
	})
	assert.Equal(t, ErrInvalidPhoneNumber, err)
}

func TestPlaceOrder_Denied(t *testing.T) {
	env := setup(t, &testOverrides{})

	require.NoError(t, env.data.CreateBlock(env.ctx, &block.Record{
		Phone:    "+12223334444",
		Reason:   block.ReasonSpam,
		IsActive: true,
	}))

	_, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
		User:  "customer@example.com",
		Phone: "+12223334444",
	})
	require.Error(t, err)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "This phone number has been blocked due to policy violations.", denied.Reason)

	// A denied order leaves no order record and no rate limit increment
	_, err = env.data.GetAllOrdersByUser(env.ctx, "customer@example.com")
	assert.Equal(t, order.ErrOrderNotFound, err)

	_, err = env.data.GetRateLimitByPhoneAndDate(env.ctx, "+12223334444", ratelimit.DayOf(time.Now()))
	assert.Equal(t, ratelimit.ErrRateLimitNotFound, err)
}

func TestPlaceOrder_DailyLimit(t *testing.T) {
	env := setup(t, &testOverrides{})

	params := &OrderParams{
		User:  "customer@example.com",
		Phone: "+12223334444",
	}

	for i := 0; i < 2; i++ {
		_, err := env.processor.PlaceOrder(env.ctx, params)
		require.NoError(t, err)
	}

	_, err := env.processor.PlaceOrder(env.ctx, params)
	require.Error(t, err)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "Maximum 2 orders per day allowed. Please try again tomorrow.", denied.Reason)
}

func TestPlaceOrder_DisabledAntispamChecks(t *testing.T) {
	env := setup(t, &testOverrides{
		disableAntispamChecks: true,
	})

	require.NoError(t, env.data.CreateBlock(env.ctx, &block.Record{
		Phone:    "+12223334444",
		Reason:   block.ReasonSpam,
		IsActive: true,
	}))

	_, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
		User:  "customer@example.com",
		Phone: "+12223334444",
	})
	require.NoError(t, err)
}

func TestUpdateOrderStatus_HappyPath(t *testing.T) {
	env := setup(t, &testOverrides{})

	record, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
		User:  "customer@example.com",
		Phone: "+12223334444",
	})
	require.NoError(t, err)

	statusChange, err := env.processor.UpdateOrderStatus(env.ctx, record.OrderNumber, order.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, statusChange.OldStatus)
	assert.Equal(t, order.StatusConfirmed, statusChange.NewStatus)
	assert.EqualValues(t, 0, statusChange.CancelledOrderCount)
	assert.False(t, statusChange.AutoBlocked)

	actual, err := env.data.GetOrderByNumber(env.ctx, record.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, actual.Status)

	_, err = env.processor.UpdateOrderStatus(env.ctx, "BWL00000000", order.StatusConfirmed)
	assert.Equal(t, order.ErrOrderNotFound, err)
}

func TestUpdateOrderStatus_AutoBlockNotice(t *testing.T) {
	env := setup(t, &testOverrides{
		disableAntispamChecks: true,
	})

	var orderNumbers []string
	for i := 0; i < 3; i++ {
		record, err := env.processor.PlaceOrder(env.ctx, &OrderParams{
			User:  "customer@example.com",
			Phone: "+12223334444",
		})
		require.NoError(t, err)
		orderNumbers = append(orderNumbers, record.OrderNumber)
	}

	statusChange, err := env.processor.UpdateOrderStatus(env.ctx, orderNumbers[0], order.StatusCancelled)
	require.NoError(t, err)
	assert.EqualValues(t, 1, statusChange.CancelledOrderCount)
	assert.False(t, statusChange.AutoBlocked)

	statusChange, err = env.processor.UpdateOrderStatus(env.ctx, orderNumbers[1], order.StatusCancelled)
	require.NoError(t, err)
	assert.EqualValues(t, 2, statusChange.CancelledOrderCount)
	assert.False(t, statusChange.AutoBlocked)

	statusChange, err = env.processor.UpdateOrderStatus(env.ctx, orderNumbers[2], order.StatusCancelled)
	require.NoError(t, err)
	assert.EqualValues(t, 3, statusChange.CancelledOrderCount)
	assert.True(t, statusChange.AutoBlocked)

	blockRecord, err := env.data.GetActiveBlockByUser(env.ctx, "customer@example.com")
	require.NoError(t, err)
	assert.Equal(t, block.ReasonCancelledOrders, blockRecord.Reason)
}
