package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/attendance-bot/internal/config"
	"github.com/username/attendance-bot/internal/controlit"
	"github.com/username/attendance-bot/internal/daemon"
	"github.com/username/attendance-bot/internal/registrar"
	"github.com/username/attendance-bot/internal/schedule"
	"github.com/username/attendance-bot/pkg/dateutil"
	"github.com/username/attendance-bot/pkg/random"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath   string
	logger       *zap.Logger
	reportWriter io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attendance-bot",
		Short: "Automated attendance registration",
		Long:  "Registers daily clock-in/clock-out events against the attendance service, respecting the working-day calendar",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(daemonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	var startArg string
	var endArg string
	var dryRun bool
	var teeOutput string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register attendance for a date range",
		Long:  "Walks the date range day by day, skipping weekends, holidays and exclusion ranges, and registers a jittered working window for every eligible day",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportWriter = os.Stdout
			if teeOutput != "" {
				if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
					return fmt.Errorf("failed to create tee path: %w", err)
				}
				f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open tee-output file: %w", err)
				}
				defer f.Close()
				reportWriter = io.MultiWriter(os.Stdout, f)
			}
			defer func() {
				reportWriter = os.Stdout
			}()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ExpandEnvVars()

			// Malformed dates abort here, before any network activity
			var start, end time.Time
			if startArg != "" {
				if start, err = dateutil.ParseDate(startArg); err != nil {
					return err
				}
			}
			if endArg != "" {
				if end, err = dateutil.ParseDate(endArg); err != nil {
					return err
				}
			} else {
				end = dateutil.Today()
			}

			client, reg, err := initializeRegistrar(cfg)
			if err != nil {
				return err
			}

			ctx := context.Background()

			// A dry run with an explicit start needs no session at all
			var token string
			needLogin := !dryRun || startArg == ""
			if needLogin {
				token, err = login(ctx, cfg, client)
				if err != nil {
					return err
				}
			}

			if startArg == "" {
				latest, err := client.LatestEventDate(ctx, token)
				if err != nil {
					return fmt.Errorf("failed to determine default start date: %w", err)
				}
				start = dateutil.NextDay(latest)
				reportPrintf("ℹ️  Resuming from %s (day after latest registered event)\n",
					start.Format(dateutil.DateLayout))
			}

			logger.Info("Starting range registration",
				zap.String("start", start.Format(dateutil.DateLayout)),
				zap.String("end", end.Format(dateutil.DateLayout)),
				zap.Bool("dry_run", dryRun))

			reportPrintf("⏳ Registering %s .. %s\n",
				start.Format(dateutil.DateLayout),
				end.Format(dateutil.DateLayout))

			outcomes := reg.RegisterRange(ctx, token, start, end, dryRun)
			reportOutcomes(outcomes)

			if dryRun {
				reportPrintln("\n[DRY RUN] No events were registered")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startArg, "start", "", "First date to register (YYYY-MM-DD, default: day after latest registered event)")
	cmd.Flags().StringVar(&endArg, "end", "", "Last date to register (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview eligible days and windows without registering")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Mirror report output to file")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest registered event date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ExpandEnvVars()

			client := newClient(cfg)

			ctx := context.Background()
			token, err := login(ctx, cfg, client)
			if err != nil {
				return err
			}

			latest, err := client.LatestEventDate(ctx, token)
			if err != nil {
				return err
			}

			reportPrintf("📅 Latest registered event: %s\n", latest.Format(dateutil.DateLayout))
			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run in daemon mode, registering today's attendance at a daily time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.ExpandEnvVars()

			if err := requireCredentials(cfg); err != nil {
				return err
			}

			client, reg, err := initializeRegistrar(cfg)
			if err != nil {
				return err
			}

			hour, minute := cfg.Daemon.GetDailyTime()
			d := daemon.New(reg, client, cfg.API.Username, cfg.API.Password,
				hour, minute, cfg.Daemon.SystemTray, logger)

			return d.Start()
		},
	}
}

func newClient(cfg *config.Config) *controlit.Client {
	return controlit.NewClient(cfg.API.BaseURL, cfg.API.EventTypeID, cfg.API.GetTimeout(), logger)
}

func initializeRegistrar(cfg *config.Config) (*controlit.Client, *registrar.Registrar, error) {
	cal, err := cfg.CalendarModel()
	if err != nil {
		return nil, nil, err
	}

	client := newClient(cfg)
	resolver := schedule.NewResolver(cal, cfg.Calendar.GetJitterMinutes(), random.NewRand(), logger)
	reg := registrar.New(cal, resolver, client, cfg.API.Retries, logger)

	return client, reg, nil
}

func requireCredentials(cfg *config.Config) error {
	if cfg.API.Username == "" || cfg.API.Password == "" {
		return fmt.Errorf("missing credentials: set api.username and api.password (environment variables are expanded)")
	}
	return nil
}

func login(ctx context.Context, cfg *config.Config, client *controlit.Client) (string, error) {
	if err := requireCredentials(cfg); err != nil {
		return "", err
	}
	return client.Login(ctx, cfg.API.Username, cfg.API.Password)
}

func reportOutcomes(outcomes []registrar.Outcome) {
	for _, o := range outcomes {
		date := o.Date.Format(dateutil.DateLayout)
		switch o.Status {
		case registrar.StatusRegistered:
			reportPrintf("✅ %s  registered %s – %s\n", date,
				o.Window.Start.Format("15:04"), o.Window.End.Format("15:04"))
		case registrar.StatusPlanned:
			reportPrintf("📋 %s  would register %s – %s\n", date,
				o.Window.Start.Format("15:04"), o.Window.End.Format("15:04"))
		case registrar.StatusSkipped:
			reportPrintf("⏭  %s  skipped (%s)\n", date, o.Reason)
		case registrar.StatusFailed:
			reportPrintf("❌ %s  failed: %v\n", date, o.Err)
		}
	}

	s := registrar.Summarize(outcomes)
	reportPrintf("\n📊 Summary: %d registered, %d skipped, %d failed",
		s.Registered, s.Skipped, s.Failed)
	if s.Planned > 0 {
		reportPrintf(", %d planned", s.Planned)
	}
	reportPrintln()
}

func reportPrintf(format string, a ...interface{}) {
	if reportWriter == nil {
		reportWriter = os.Stdout
	}
	fmt.Fprintf(reportWriter, format, a...)
}

func reportPrintln(a ...interface{}) {
	if reportWriter == nil {
		reportWriter = os.Stdout
	}
	fmt.Fprintln(reportWriter, a...)
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
