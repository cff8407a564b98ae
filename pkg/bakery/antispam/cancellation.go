package antispam

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/order"
	"github.com/bakewell-bakery/bakewell-server/pkg/metrics"
)

// OnOrderStatusChanged observes an order status transition and blocks users
// who cancel too many orders. Only a transition into the cancelled status
// counts; re-saving an already cancelled order is a no-op.
//
// The user's cancelled order count is recomputed from the order records on
// every qualifying transition, so operator corrections are picked up without
// a separate reconciliation job. The returned count is the user's current
// number of cancelled orders, for inclusion in operator notices.
func (g *Guard) OnOrderStatusChanged(ctx context.Context, orderRecord *order.Record, oldStatus, newStatus order.Status) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "OnOrderStatusChanged")
	defer tracer.End()

	log := g.log.WithFields(logrus.Fields{
		"method":       "OnOrderStatusChanged",
		"order_number": orderRecord.OrderNumber,
		"user":         orderRecord.User,
	})

	if newStatus != order.StatusCancelled || oldStatus == order.StatusCancelled {
		return 0, nil
	}

	cancelledCount, err := g.data.GetOrderCountByUserAndStatus(ctx, orderRecord.User, order.StatusCancelled)
	if err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting cancelled order count")
		return 0, err
	}

	log = log.WithField("cancelled_count", cancelledCount)

	if cancelledCount < g.conf.cancelledOrdersAutoBlockThreshold {
		return cancelledCount, nil
	}

	blockRecord := &block.Record{
		User:     &orderRecord.User,
		Phone:    orderRecord.Phone,
		Reason:   block.ReasonCancelledOrders,
		Notes:    fmt.Sprintf("Auto-blocked after %d cancelled orders", cancelledCount),
		IsActive: true,
	}
	err = g.data.CreateBlock(ctx, blockRecord)
	switch err {
	case nil:
		log.Info("user auto-blocked for excessive cancellations")
	case block.ErrBlockExists:
		// Already blocked for cancellations on a previous transition
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure creating block record")
		return cancelledCount, err
	}

	return cancelledCount, nil
}
