package schedule

import (
	"math/rand"
	"time"

	"github.com/username/attendance-bot/internal/calendar"
	"github.com/username/attendance-bot/pkg/random"
	"go.uber.org/zap"
)

// DefaultJitterMinutes bounds the random shift applied to each window
const DefaultJitterMinutes = 5.0

// Window is a concrete clock-in/clock-out timestamp pair for one day
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the shift length. Jitter moves both endpoints by the
// same offset, so this always equals the configured weekday duration.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Resolver turns an eligible date into a concrete working window,
// applying a bounded random jitter so the registered times vary from day
// to day while the shift duration stays exact.
type Resolver struct {
	cal           *calendar.Config
	jitterMinutes float64
	rng           *rand.Rand
	logger        *zap.Logger
}

// NewResolver creates a resolver. The random source is injected so tests
// can seed it; pass random.NewRand() in production wiring.
func NewResolver(cal *calendar.Config, jitterMinutes float64, rng *rand.Rand, logger *zap.Logger) *Resolver {
	if jitterMinutes < 0 {
		jitterMinutes = DefaultJitterMinutes
	}

	return &Resolver{
		cal:           cal,
		jitterMinutes: jitterMinutes,
		rng:           rng,
		logger:        logger,
	}
}

// Window resolves the concrete start/end timestamps for the given date.
// One jitter value is drawn per call and applied to both endpoints, and
// it is redrawn on every call so consecutive days never share an offset.
func (r *Resolver) Window(date time.Time) Window {
	hours := r.cal.HoursFor(date)

	jitter := random.Jitter(r.rng, r.jitterMinutes)

	window := Window{
		Start: hours.Start.On(date).Add(jitter),
		End:   hours.End.On(date).Add(jitter),
	}

	r.logger.Debug("Working window resolved",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("weekday", date.Weekday().String()),
		zap.Time("start", window.Start),
		zap.Time("end", window.End),
		zap.Duration("jitter", jitter))

	return window
}
