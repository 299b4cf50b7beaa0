package loop

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/vovakirdan/tankduel/internal/loop"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// instruments are the loop's metrics. They are no-ops unless a global
// meter provider has been installed.
type instruments struct {
	ticks        metric.Int64Counter
	overruns     metric.Int64Counter
	tickDuration metric.Float64Histogram
	shots        metric.Int64Counter
	hits         metric.Int64Counter
	matches      metric.Int64Counter
}

func newInstruments() (*instruments, error) {
	m := meter()
	in := &instruments{}

	var err error
	if in.ticks, err = m.Int64Counter("tankduel.loop.ticks",
		metric.WithDescription("Simulation ticks executed")); err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	if in.overruns, err = m.Int64Counter("tankduel.loop.overruns",
		metric.WithDescription("Ticks whose work exceeded the tick period")); err != nil {
		return nil, fmt.Errorf("creating overrun counter: %w", err)
	}
	if in.tickDuration, err = m.Float64Histogram("tankduel.loop.tick.duration",
		metric.WithDescription("Time spent simulating one tick"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	if in.shots, err = m.Int64Counter("tankduel.game.shots",
		metric.WithDescription("Projectiles fired")); err != nil {
		return nil, fmt.Errorf("creating shot counter: %w", err)
	}
	if in.hits, err = m.Int64Counter("tankduel.game.hits",
		metric.WithDescription("Projectiles that struck a tank")); err != nil {
		return nil, fmt.Errorf("creating hit counter: %w", err)
	}
	if in.matches, err = m.Int64Counter("tankduel.game.matches",
		metric.WithDescription("Matches finished, by end reason")); err != nil {
		return nil, fmt.Errorf("creating match counter: %w", err)
	}
	return in, nil
}

func reasonAttr(r EndReason) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("reason", string(r)))
}

func playerAttr(name string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("player", name))
}
