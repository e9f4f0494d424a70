package config

import (
	"github.com/pramudya/arus/internal/executor"
	"github.com/spf13/viper"
)

// LoadExecutorOptions reads executor tuning from Viper. Unset keys keep
// the executor's defaults.
func LoadExecutorOptions() []executor.Option {
	var opts []executor.Option

	if v := viper.GetFloat64("executor.large_amount_threshold"); v > 0 {
		opts = append(opts, executor.WithLargeThreshold(v))
	}
	if v := viper.GetDuration("executor.duplicate_window"); v > 0 {
		opts = append(opts, executor.WithDedupWindow(v))
	}

	return opts
}
