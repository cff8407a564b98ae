package checkout

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/antispam"
	bakery_data "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/metrics"
	"github.com/bakewell-bakery/bakewell-server/pkg/phone"
)

const (
	metricsStructName = "checkout.processor"

	placeOrderLatencyMetricName = "Checkout/place_order_latency"

	orderNumberPrefix = "BWL"

	maxOrderNumberAttempts = 5
)

var (
	ErrInvalidPhoneNumber = errors.New("phone number is invalid")
)

// DeniedError is returned when an order is rejected by an antispam policy.
// The reason is a user-facing message that can be surfaced verbatim.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

// OrderParams are the customer-provided inputs to a new order
type OrderParams struct {
	User      string
	Phone     string
	IpAddress *string

	Address string
	Notes   string

	TotalCents uint64
}

// StatusChange describes the outcome of an order status transition for
// operator notices.
type StatusChange struct {
	Order *order.Record

	OldStatus order.Status
	NewStatus order.Status

	CancelledOrderCount uint64
	AutoBlocked         bool
}

// Processor manages the order lifecycle at the checkout boundary. All spam
// policy enforcement for order placement funnels through here.
type Processor struct {
	log   *logrus.Entry
	data  bakery_data.Provider
	guard *antispam.Guard
	conf  *conf
}

func NewProcessor(data bakery_data.Provider, guard *antispam.Guard, configProvider ConfigProvider) *Processor {
	return &Processor{
		log:   logrus.StandardLogger().WithField("type", "checkout/processor"),
		data:  data,
		guard: guard,
		conf:  configProvider(),
	}
}

// PlaceOrder validates a new order against the antispam policies and persists
// it. On a policy denial the returned error is a *DeniedError carrying the
// user-facing reason. The order is recorded against the rate limits exactly
// once, after the order record is durable.
func (p *Processor) PlaceOrder(ctx context.Context, params *OrderParams) (*order.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "PlaceOrder")
	defer tracer.End()

	start := time.Now()
	defer func() {
		metrics.RecordDuration(ctx, placeOrderLatencyMetricName, time.Since(start))
	}()

	log := p.log.WithFields(logrus.Fields{
		"method": "PlaceOrder",
		"user":   params.User,
	})

	sanitizedPhone := phone.Sanitize(params.Phone)
	if !phone.IsValidNumber(sanitizedPhone) {
		return nil, ErrInvalidPhoneNumber
	}

	log = log.WithField("phone", sanitizedPhone)

	if !p.conf.disableAntispamChecks.Get(ctx) {
		allowed, reason, err := p.guard.AllowOrderCreation(ctx, &params.User, sanitizedPhone, params.IpAddress)
		if err != nil {
			tracer.OnError(err)
			log.WithError(err).Warn("failure performing antispam checks")
			return nil, errors.Wrap(err, "error performing antispam checks")
		}

		if !allowed {
			return nil, &DeniedError{Reason: reason}
		}
	}

	record := &order.Record{
		User:      params.User,
		Phone:     sanitizedPhone,
		IpAddress: params.IpAddress,

		Address: params.Address,
		Notes:   params.Notes,

		TotalCents: params.TotalCents,

		Status: order.StatusPending,
	}

	for attempt := 0; ; attempt++ {
		record.OrderNumber = newOrderNumber()

		err := p.data.CreateOrder(ctx, record)
		if err == nil {
			break
		}

		if err == order.ErrOrderExists && attempt+1 < maxOrderNumberAttempts {
			continue
		}

		tracer.OnError(err)
		log.WithError(err).Warn("failure creating order record")
		return nil, errors.Wrap(err, "error creating order record")
	}

	log = log.WithField("order_number", record.OrderNumber)

	if err := p.data.RecordOrderForRateLimiting(ctx, sanitizedPhone, params.IpAddress); err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure recording order for rate limiting")
		return nil, errors.Wrap(err, "error recording order for rate limiting")
	}

	log.Info("order placed")

	return record, nil
}

// UpdateOrderStatus persists an order status transition and runs the
// cancellation watcher over the result.
func (p *Processor) UpdateOrderStatus(ctx context.Context, orderNumber string, newStatus order.Status) (*StatusChange, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpdateOrderStatus")
	defer tracer.End()

	log := p.log.WithFields(logrus.Fields{
		"method":       "UpdateOrderStatus",
		"order_number": orderNumber,
		"new_status":   newStatus.String(),
	})

	record, err := p.data.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting order record")
		return nil, err
	}

	oldStatus := record.Status

	record.Status = newStatus
	if err := p.data.UpdateOrder(ctx, record); err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure updating order record")
		return nil, errors.Wrap(err, "error updating order record")
	}

	cancelledCount, err := p.guard.OnOrderStatusChanged(ctx, record, oldStatus, newStatus)
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure observing order status change")
		return nil, errors.Wrap(err, "error observing order status change")
	}

	res := &StatusChange{
		Order: record,

		OldStatus: oldStatus,
		NewStatus: newStatus,

		CancelledOrderCount: cancelledCount,
	}

	if newStatus == order.StatusCancelled {
		blockRecord, err := p.data.GetActiveBlockByUser(ctx, record.User)
		switch err {
		case nil:
			res.AutoBlocked = blockRecord.Reason == block.ReasonCancelledOrders
		case block.ErrBlockNotFound:
		default:
			tracer.OnError(err)
			log.WithError(err).Warn("failure getting block record for user")
			return nil, err
		}
	}

	return res, nil
}

func newOrderNumber() string {
	id := uuid.New()
	return orderNumberPrefix + strings.ToUpper(hex.EncodeToString(id[:4]))
}
