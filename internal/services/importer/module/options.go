package module

import (
	"time"

	"github.com/shopspring/decimal"

	"compsync/internal/core/repair"
	"compsync/internal/platform/config"
	"compsync/internal/services/importer/service"
)

// Options configures the importer module
type Options struct {
	MaxRows     int
	EmailDomain string
	FloorFixed  decimal.Decimal
	Retain      time.Duration
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_IMPORT_")
	return Options{
		MaxRows:     c.MayPositiveInt("MAX_ROWS", service.DefaultMaxRows),
		EmailDomain: c.MayString("EMAIL_DOMAIN", repair.DefaultEmailDomain),
		FloorFixed:  c.MayDecimal("FLOOR_FIXED", repair.DefaultFloor),
		Retain:      c.MayDuration("RETAIN", 15*time.Minute),
	}
}

// Config maps options onto the service config; the clock stays the system one
func (o Options) Config() service.Config {
	p := repair.DefaultPolicy()
	p.Now = nil
	p.EmailDomain = o.EmailDomain
	p.FloorAnnualFixed = o.FloorFixed
	return service.Config{MaxRows: o.MaxRows, Policy: p, Retain: o.Retain}
}
