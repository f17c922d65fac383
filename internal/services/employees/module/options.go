package module

import "compsync/internal/platform/config"

// Options configures the employees module
type Options struct {
	BatchSize     int
	Workers       int
	FanoutWorkers int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("CORE_EMPLOYEES_")
	bf := cfg.Prefix("CORE_BANDS_")
	return Options{
		BatchSize:     ef.MayPositiveInt("BATCH_SIZE", 10),
		Workers:       ef.MayPositiveInt("WORKERS", 4),
		FanoutWorkers: bf.MayPositiveInt("FANOUT_WORKERS", 8),
	}
}
