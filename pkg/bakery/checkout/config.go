package checkout

import (
	"github.com/bakewell-bakery/bakewell-server/pkg/config"
	"github.com/bakewell-bakery/bakewell-server/pkg/config/env"
	"github.com/bakewell-bakery/bakewell-server/pkg/config/memory"
	"github.com/bakewell-bakery/bakewell-server/pkg/config/wrapper"
)

const (
	envConfigPrefix = "CHECKOUT_SERVICE_"

	DisableAntispamChecksConfigEnvName = envConfigPrefix + "DISABLE_ANTISPAM_CHECKS"
	defaultDisableAntispamChecks       = false
)

type conf struct {
	disableAntispamChecks config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			disableAntispamChecks: env.NewBoolConfig(DisableAntispamChecksConfigEnvName, defaultDisableAntispamChecks),
		}
	}
}

type testOverrides struct {
	disableAntispamChecks bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			disableAntispamChecks: wrapper.NewBoolConfig(memory.NewConfig(overrides.disableAntispamChecks), defaultDisableAntispamChecks),
		}
	}
}
