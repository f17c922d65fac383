package pg

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"compsync/internal/platform/logger"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at info and slow ones at warn, regardless of the root level.
// Args are omitted unless withArgs is set, since rows carry compensation data.
func Tracer(root logger.Logger, withArgs bool) QueryTracer {
	return &zlTracer{
		log:      root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger(),
		withArgs: withArgs,
	}
}

type zlTracer struct {
	log      logger.Logger
	withArgs bool
}

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.Err != nil {
		evt = z.log.Error().Err(ev.Err)
	}
	if z.withArgs {
		evt = evt.Interface("args", ev.Args)
	}
	evt.Ctx(ctx).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Msg("pg query")
}

// compact collapses runs of whitespace into one space
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
