package registrar

import (
	"context"
	"errors"
	"time"

	"github.com/username/attendance-bot/internal/calendar"
	"github.com/username/attendance-bot/internal/controlit"
	"github.com/username/attendance-bot/internal/schedule"
	"github.com/username/attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
)

// Status classifies what happened to one day of the range
type Status int

const (
	StatusRegistered Status = iota + 1
	StatusSkipped
	StatusFailed
	StatusPlanned // dry run: window resolved, nothing sent
)

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusPlanned:
		return "planned"
	default:
		return "unknown"
	}
}

// Outcome is the per-day result of a range run
type Outcome struct {
	Date   time.Time
	Status Status
	Reason calendar.SkipReason // set for StatusSkipped
	Window schedule.Window     // set for registered/planned/failed days
	Err    error               // set for StatusFailed
}

// Summary counts outcomes by status
type Summary struct {
	Registered int
	Skipped    int
	Failed     int
	Planned    int
}

// Summarize derives the run summary from the emitted outcome sequence
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusRegistered:
			s.Registered++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		case StatusPlanned:
			s.Planned++
		}
	}
	return s
}

// Client is the registration call the registrar drives. *controlit.Client
// satisfies it; tests substitute fakes.
type Client interface {
	Register(ctx context.Context, token string, start, end time.Time) error
}

// Registrar walks a date range day by day and registers attendance on
// every eligible day. Days are processed strictly in ascending calendar
// order, one at a time, and one failing day never halts the range.
type Registrar struct {
	cal      *calendar.Config
	resolver *schedule.Resolver
	client   Client
	retries  int
	logger   *zap.Logger
}

// New creates a range registrar. retries is the number of attempts per
// day for transport failures; values below 1 mean a single attempt.
func New(cal *calendar.Config, resolver *schedule.Resolver, client Client, retries int, logger *zap.Logger) *Registrar {
	if retries < 1 {
		retries = 1
	}

	return &Registrar{
		cal:      cal,
		resolver: resolver,
		client:   client,
		retries:  retries,
		logger:   logger,
	}
}

// RegisterRange registers every eligible day in [start, end], inclusive on
// both ends; a start after the end yields no outcomes. Per-day failures
// are converted into Failed outcomes, never propagated.
func (r *Registrar) RegisterRange(ctx context.Context, token string, start, end time.Time, dryRun bool) []Outcome {
	start = dateutil.StartOfDay(start)
	end = dateutil.StartOfDay(end)

	var outcomes []Outcome

	for day := start; !day.After(end); day = dateutil.NextDay(day) {
		outcome := r.registerDay(ctx, token, day, dryRun)
		outcomes = append(outcomes, outcome)

		if outcome.Status == StatusFailed && ctx.Err() != nil {
			// The run itself was cancelled; later days would fail the
			// same way, so stop emitting them.
			break
		}
	}

	summary := Summarize(outcomes)
	r.logger.Info("Range completed",
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")),
		zap.Bool("dry_run", dryRun),
		zap.Int("registered", summary.Registered),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("planned", summary.Planned))

	return outcomes
}

func (r *Registrar) registerDay(ctx context.Context, token string, day time.Time, dryRun bool) Outcome {
	if ok, reason := r.cal.IsWorkday(day); !ok {
		r.logger.Info("Skipping day",
			zap.String("date", day.Format("2006-01-02")),
			zap.String("reason", reason.String()))
		return Outcome{Date: day, Status: StatusSkipped, Reason: reason}
	}

	window := r.resolver.Window(day)

	if dryRun {
		return Outcome{Date: day, Status: StatusPlanned, Window: window}
	}

	if err := r.register(ctx, token, window); err != nil {
		r.logger.Error("Failed to register day",
			zap.String("date", day.Format("2006-01-02")),
			zap.Error(err))
		return Outcome{Date: day, Status: StatusFailed, Window: window, Err: err}
	}

	r.logger.Info("Day registered",
		zap.String("date", day.Format("2006-01-02")),
		zap.Time("start", window.Start),
		zap.Time("end", window.End))

	return Outcome{Date: day, Status: StatusRegistered, Window: window}
}

// register performs the remote call, retrying transport failures only.
// Application-level rejections are final for the day.
func (r *Registrar) register(ctx context.Context, token string, window schedule.Window) error {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		err := r.client.Register(ctx, token, window.Start, window.End)
		if err == nil {
			return nil
		}
		lastErr = err

		var transportErr *controlit.TransportError
		if !errors.As(err, &transportErr) || ctx.Err() != nil {
			return err
		}

		if attempt < r.retries {
			r.logger.Warn("Registration attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.retries),
				zap.Error(err))
			time.Sleep(time.Second * time.Duration(attempt))
		}
	}

	return lastErr
}
