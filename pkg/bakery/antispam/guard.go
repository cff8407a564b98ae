package antispam

import (
	"time"

	"github.com/oschwald/maxminddb-golang"
	"github.com/sirupsen/logrus"

	bakery_data "github.com/bakewell-bakery/bakewell-server/pkg/bakery/data"
)

// Guard is an antispam guard that checks whether operations of interest are
// allowed to be performed.
//
// Note: Implementation assumes distributed locking has already occurred for
// all methods.
type Guard struct {
	log     *logrus.Entry
	data    bakery_data.Provider
	maxmind *maxminddb.Reader
	conf    *conf

	nowFn func() time.Time
}

func NewGuard(data bakery_data.Provider, opts ...Option) *Guard {
	conf := applyOptions(opts...)

	return &Guard{
		log:     logrus.StandardLogger().WithField("type", "antispam/guard"),
		data:    data,
		maxmind: conf.maxmind,
		conf:    conf,

		nowFn: time.Now,
	}
}
