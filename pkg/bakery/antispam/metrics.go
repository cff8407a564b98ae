package antispam

import (
	"context"

	"github.com/bakewell-bakery/bakewell-server/pkg/metrics"
)

const (
	metricsStructName = "antispam.guard"

	eventName = "AntispamGuardDenial"

	denialCountMetricName = "Antispam/denial_count"

	actionPlaceOrder = "PlaceOrder"
)

func recordDenialEvent(ctx context.Context, action, reason string) {
	kvPairs := map[string]interface{}{
		"action": action,
		"reason": reason,
		"count":  1,
	}
	metrics.RecordEvent(ctx, eventName, kvPairs)
	metrics.RecordCount(ctx, denialCountMetricName, 1)
}
