package antispam

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/block"
	"github.com/bakewell-bakery/bakewell-server/pkg/bakery/data/ratelimit"
	"github.com/bakewell-bakery/bakewell-server/pkg/metrics"
	"github.com/bakewell-bakery/bakewell-server/pkg/netutil"
	"github.com/bakewell-bakery/bakewell-server/pkg/pointer"
)

const (
	msgUserBlocked  = "Your account has been blocked due to policy violations."
	msgPhoneBlocked = "This phone number has been blocked due to policy violations."
	msgIpBlocked    = "Access denied. Please contact support."
)

// AllowOrderCreation determines whether a customer can place a new order at
// checkout. Checks are evaluated in a fixed order (blocked identities, then
// the daily phone limit, then the IP cooldown) and the first failing check
// wins, so a blocked identity never observes a rate limit message.
//
// The returned message is user-facing and only set on a denial. The method
// has no side effects; recording the order against the rate limits happens
// after the order is durably created.
func (g *Guard) AllowOrderCreation(ctx context.Context, user *string, phone string, ipAddress *string) (bool, string, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "AllowOrderCreation")
	defer tracer.End()

	log := g.log.WithFields(logrus.Fields{
		"method": "AllowOrderCreation",
		"phone":  phone,
	})
	if user != nil {
		log = log.WithField("user", *user)
	}
	if ipAddress != nil {
		log = log.WithField("ip_address", *ipAddress)
	}

	// Blocked user
	if user != nil {
		_, err := g.data.GetActiveBlockByUser(ctx, *user)
		switch err {
		case nil:
			log.Info("user is blocked")
			recordDenialEvent(ctx, actionPlaceOrder, "user blocked")
			return false, msgUserBlocked, nil
		case block.ErrBlockNotFound:
		default:
			tracer.OnError(err)
			log.WithError(err).Warn("failure getting block record for user")
			return false, "", err
		}
	}

	// Blocked phone number
	_, err := g.data.GetActiveBlockByPhone(ctx, phone)
	switch err {
	case nil:
		log.Info("phone number is blocked")
		recordDenialEvent(ctx, actionPlaceOrder, "phone blocked")
		return false, msgPhoneBlocked, nil
	case block.ErrBlockNotFound:
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting block record for phone number")
		return false, "", err
	}

	// Blocked IP address
	if ipAddress != nil && len(*ipAddress) > 0 {
		_, err := g.data.GetActiveBlockByIp(ctx, *ipAddress)
		switch err {
		case nil:
			ipMetadata, metadataErr := netutil.GetIpMetadata(ctx, g.maxmind, *ipAddress)
			if metadataErr == nil {
				log = log.WithFields(logrus.Fields{
					"city":    pointer.StringOrDefault(ipMetadata.City, "unknown"),
					"country": pointer.StringOrDefault(ipMetadata.Country, "unknown"),
				})
			}

			log.Info("ip address is blocked")
			recordDenialEvent(ctx, actionPlaceOrder, "ip blocked")
			return false, msgIpBlocked, nil
		case block.ErrBlockNotFound:
		default:
			tracer.OnError(err)
			log.WithError(err).Warn("failure getting block record for ip address")
			return false, "", err
		}
	}

	// Daily order limit for the phone number
	record, err := g.data.GetRateLimitByPhoneAndDate(ctx, phone, ratelimit.DayOf(g.nowFn()))
	switch err {
	case nil:
		if record.OrderCount >= g.conf.maxDailyOrdersPerPhone {
			log.Info("phone number exceeded daily order limit")
			recordDenialEvent(ctx, actionPlaceOrder, "daily limit exceeded")
			return false, fmt.Sprintf("Maximum %d orders per day allowed. Please try again tomorrow.", g.conf.maxDailyOrdersPerPhone), nil
		}
	case ratelimit.ErrRateLimitNotFound:
	default:
		tracer.OnError(err)
		log.WithError(err).Warn("failure getting rate limit record for phone number")
		return false, "", err
	}

	// IP cooldown between orders
	if ipAddress != nil && len(*ipAddress) > 0 {
		record, err := g.data.GetLastRateLimitByIp(ctx, *ipAddress)
		switch err {
		case nil:
			waitTime := record.LastOrderAt.Add(g.conf.ipCooldownWindow).Sub(g.nowFn())
			if waitTime > 0 {
				minutesLeft := int64(math.Ceil(waitTime.Minutes()))
				if minutesLeft < 1 {
					minutesLeft = 1
				}

				log.Info("ip address is within the cooldown window")
				recordDenialEvent(ctx, actionPlaceOrder, "ip cooldown")
				return false, fmt.Sprintf("Please wait %d minute(s) before placing another order.", minutesLeft), nil
			}
		case ratelimit.ErrRateLimitNotFound:
		default:
			tracer.OnError(err)
			log.WithError(err).Warn("failure getting rate limit record for ip address")
			return false, "", err
		}
	}

	return true, "", nil
}
