package antispam

import (
	"time"

	"github.com/oschwald/maxminddb-golang"
)

const (
	defaultMaxDailyOrdersPerPhone = 2

	defaultIpCooldownWindow = 5 * time.Minute

	defaultCancelledOrdersAutoBlockThreshold = 3
)

type conf struct {
	maxDailyOrdersPerPhone uint64

	ipCooldownWindow time.Duration

	cancelledOrdersAutoBlockThreshold uint64

	maxmind *maxminddb.Reader
}

// Option configures a Guard with an overrided configuration value
type Option func(c *conf)

// WithDailyOrderLimit overrides the default daily order limit. The value
// specifies the maximum number of orders that can be placed per phone number
// per calendar day.
func WithDailyOrderLimit(limit uint64) Option {
	return func(c *conf) {
		c.maxDailyOrdersPerPhone = limit
	}
}

// WithIpCooldownWindow overrides the default IP cooldown window. The value
// specifies the minimum time between orders placed from a single IP address.
func WithIpCooldownWindow(window time.Duration) Option {
	return func(c *conf) {
		c.ipCooldownWindow = window
	}
}

// WithAutoBlockThreshold overrides the default cancelled order auto-block
// threshold. A user reaching the threshold is blocked from placing further
// orders.
func WithAutoBlockThreshold(threshold uint64) Option {
	return func(c *conf) {
		c.cancelledOrdersAutoBlockThreshold = threshold
	}
}

// WithMaxMindDb enables best-effort IP geolocation metadata on denial logs
func WithMaxMindDb(db *maxminddb.Reader) Option {
	return func(c *conf) {
		c.maxmind = db
	}
}

func applyOptions(opts ...Option) *conf {
	defaultConfig := &conf{
		maxDailyOrdersPerPhone:            defaultMaxDailyOrdersPerPhone,
		ipCooldownWindow:                  defaultIpCooldownWindow,
		cancelledOrdersAutoBlockThreshold: defaultCancelledOrdersAutoBlockThreshold,
	}

	for _, o := range opts {
		o(defaultConfig)
	}

	return defaultConfig
}
