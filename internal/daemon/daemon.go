package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/attendance-bot/internal/controlit"
	"github.com/username/attendance-bot/internal/registrar"
	"github.com/username/attendance-bot/pkg/dateutil"
	"go.uber.org/zap"
)

// Daemon registers today's attendance once per day at a scheduled local
// time. It logs in freshly before each run, so a token never has to
// survive between days.
type Daemon struct {
	reg         *registrar.Registrar
	client      *controlit.Client
	username    string
	password    string
	dailyHour   int
	dailyMinute int
	systemTray  bool
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	trayApp     *TrayApp
	lastRunDate string
	lastOutcome string
	mu          sync.Mutex
	running     bool
}

// New creates a daemon that runs at dailyHour:dailyMinute local time
func New(reg *registrar.Registrar, client *controlit.Client, username, password string, dailyHour, dailyMinute int, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		reg:         reg,
		client:      client,
		username:    username,
		password:    password,
		dailyHour:   dailyHour,
		dailyMinute: dailyMinute,
		systemTray:  systemTray,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the daemon, with the system tray when enabled
func (d *Daemon) Start() error {
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			d.runScheduledLogic()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runScheduledLogic()
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// runScheduledLogic waits for the daily time and registers today
func (d *Daemon) runScheduledLogic() {
	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute))

	// If the scheduled time already passed today, catch up immediately
	now := time.Now()
	today := now.Format("2006-01-02")
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, time.Local)

	if now.After(scheduledToday) && d.lastRunDate != today {
		d.logger.Info("Scheduled time already passed today, registering now",
			zap.Time("scheduled_time", scheduledToday))
		d.runOnce()
	}

	nextRun := d.calculateNextRun()
	d.logger.Info("Next run scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", time.Until(nextRun)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Check every minute whether the daily time arrived
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return

		case now := <-ticker.C:
			if !d.shouldRunAt(now) {
				continue
			}
			if d.lastRunDate == now.Format("2006-01-02") {
				d.logger.Debug("Already ran today, skipping")
				continue
			}

			d.logger.Info("Starting scheduled registration", zap.Time("time", now))
			d.runOnce()

			nextRun = d.calculateNextRun()
			d.logger.Info("Next run scheduled",
				zap.Time("next_run", nextRun),
				zap.Duration("wait_duration", time.Until(nextRun)))
		}
	}
}

// runOnce registers today's attendance and notifies the tray
func (d *Daemon) runOnce() {
	if err := d.runRegistration(); err != nil {
		d.logger.Error("Registration run failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Registration Failed", fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if d.trayApp != nil {
		d.trayApp.ShowNotification("Registration Completed", d.lastOutcome)
	}
}

// runRegistration logs in and registers today. Guarded by a mutex and the
// last-run date so a slow run and the ticker cannot double-register.
func (d *Daemon) runRegistration() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.logger.Warn("Registration already running, skipping concurrent execution")
		return fmt.Errorf("registration already in progress")
	}

	today := dateutil.Today()
	todayStr := today.Format("2006-01-02")
	if d.lastRunDate == todayStr {
		d.logger.Info("Already ran today, skipping to prevent duplicates",
			zap.String("last_run_date", d.lastRunDate))
		return nil
	}

	d.running = true
	defer func() {
		d.running = false
	}()

	token, err := d.client.Login(d.ctx, d.username, d.password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	outcomes := d.reg.RegisterRange(d.ctx, token, today, today, false)
	summary := registrar.Summarize(outcomes)

	switch {
	case summary.Failed > 0:
		d.lastOutcome = fmt.Sprintf("Failed on %s: %v", todayStr, outcomes[0].Err)
		return fmt.Errorf("registration failed for %s: %w", todayStr, outcomes[0].Err)
	case summary.Skipped > 0:
		d.lastOutcome = fmt.Sprintf("Skipped %s (%s)", todayStr, outcomes[0].Reason)
	default:
		d.lastOutcome = fmt.Sprintf("Registered %s", todayStr)
	}

	// A skipped day still counts as today's run
	d.lastRunDate = todayStr

	d.logger.Info("Registration run completed",
		zap.String("date", todayStr),
		zap.String("outcome", d.lastOutcome))

	return nil
}

// RegisterNow triggers an immediate run (called from the tray menu)
func (d *Daemon) RegisterNow() {
	d.logger.Info("Manual registration triggered from tray")
	d.runOnce()
}

// LastOutcome returns a description of the most recent run
func (d *Daemon) LastOutcome() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastOutcome == "" {
		return "No run yet"
	}
	return d.lastOutcome
}

// calculateNextRun calculates the next scheduled run time (local timezone)
func (d *Daemon) calculateNextRun() time.Time {
	now := time.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, time.Local)

	if now.After(today) || now.Equal(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// shouldRunAt checks if the daily time matches (within the minute window)
func (d *Daemon) shouldRunAt(now time.Time) bool {
	local := now.In(time.Local)
	return local.Hour() == d.dailyHour && local.Minute() == d.dailyMinute
}
