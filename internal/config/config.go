package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/attendance-bot/internal/calendar"
)

// Config represents application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
}

// APIConfig represents the attendance service connection
type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	EventTypeID string `mapstructure:"event_type_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	Timeout     string `mapstructure:"timeout"`
	Retries     int    `mapstructure:"retries"`
}

// CalendarConfig represents the working-day calendar
type CalendarConfig struct {
	WorkingHours  map[string]HoursConfig `mapstructure:"working_hours"`
	Holidays      []MonthDayConfig       `mapstructure:"holidays"`
	Vacations     []RangeConfig          `mapstructure:"vacations"`
	SickLeaves    []RangeConfig          `mapstructure:"sick_leaves"`
	JitterMinutes float64                `mapstructure:"jitter_minutes"`
}

// HoursConfig is one weekday's shift window, times in HH:MM
type HoursConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// MonthDayConfig is a recurring yearly day
type MonthDayConfig struct {
	Month int `mapstructure:"month"`
	Day   int `mapstructure:"day"`
}

// RangeConfig is a recurring yearly date range, inclusive on both ends
type RangeConfig struct {
	Start MonthDayConfig `mapstructure:"start"`
	End   MonthDayConfig `mapstructure:"end"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime  string `mapstructure:"daily_time"` // HH:MM local time
	LogFile    string `mapstructure:"log_file"`
	LogLevel   string `mapstructure:"log_level"`
	SystemTray bool   `mapstructure:"system_tray"` // Windows only
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.attendance-bot")
		v.AddConfigPath("/etc/attendance-bot")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration. Calendar errors surface here at
// load time, before any network activity.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("api.retries must not be negative")
	}
	if c.Calendar.JitterMinutes < 0 || c.Calendar.JitterMinutes > 60 {
		return fmt.Errorf("calendar.jitter_minutes must be between 0 and 60")
	}

	if _, err := c.CalendarModel(); err != nil {
		return err
	}

	if c.Daemon.DailyTime != "" {
		if _, _, err := parseClock(c.Daemon.DailyTime); err != nil {
			return fmt.Errorf("daemon.daily_time: %w", err)
		}
	}

	return nil
}

// CalendarModel converts the configured calendar into the immutable model
// shared by the eligibility filter and the hours resolver.
func (c *Config) CalendarModel() (*calendar.Config, error) {
	hours := make(map[string]calendar.WorkingHours, len(c.Calendar.WorkingHours))
	for name, hc := range c.Calendar.WorkingHours {
		start, err := parseTimeOfDay(hc.Start)
		if err != nil {
			return nil, fmt.Errorf("calendar.working_hours.%s.start: %w", name, err)
		}
		end, err := parseTimeOfDay(hc.End)
		if err != nil {
			return nil, fmt.Errorf("calendar.working_hours.%s.end: %w", name, err)
		}
		// viper lowercases map keys, so restore canonical weekday names
		hours[canonicalDayKey(name)] = calendar.WorkingHours{Start: start, End: end}
	}

	model := &calendar.Config{
		WorkingHours: hours,
		Holidays:     toMonthDays(c.Calendar.Holidays),
		Vacations:    toRanges(c.Calendar.Vacations),
		SickLeaves:   toRanges(c.Calendar.SickLeaves),
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	return model, nil
}

// GetTimeout returns the API request timeout
func (c *APIConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// GetJitterMinutes returns the configured jitter bound, defaulting to 5
func (c *CalendarConfig) GetJitterMinutes() float64 {
	if c.JitterMinutes == 0 {
		return 5.0
	}
	return c.JitterMinutes
}

// GetDailyTime returns the configured daily run time (local timezone).
// Returns hour and minute (0-23, 0-59). Default: 08:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	h, m, err := parseClock(c.DailyTime)
	if err != nil {
		return 8, 0
	}
	return h, m
}

// ExpandEnvVars expands environment variables in credential fields, so
// secrets can be supplied out-of-band as ${ATTENDANCE_USERNAME} etc.
func (c *Config) ExpandEnvVars() {
	c.API.Username = os.ExpandEnv(c.API.Username)
	c.API.Password = os.ExpandEnv(c.API.Password)
}

func canonicalDayKey(name string) string {
	lower := strings.ToLower(name)
	if lower == calendar.DefaultKey {
		return calendar.DefaultKey
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == lower {
			return d.String()
		}
	}
	return name
}

func parseClock(value string) (hour, minute int, err error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return h, m, nil
}

func parseTimeOfDay(value string) (calendar.TimeOfDay, error) {
	h, m, err := parseClock(value)
	if err != nil {
		return calendar.TimeOfDay{}, err
	}
	return calendar.TimeOfDay{Hour: h, Minute: m}, nil
}

func toMonthDays(entries []MonthDayConfig) []calendar.MonthDay {
	days := make([]calendar.MonthDay, 0, len(entries))
	for _, e := range entries {
		days = append(days, calendar.MonthDay{Month: time.Month(e.Month), Day: e.Day})
	}
	return days
}

func toRanges(entries []RangeConfig) []calendar.ExclusionRange {
	ranges := make([]calendar.ExclusionRange, 0, len(entries))
	for _, e := range entries {
		ranges = append(ranges, calendar.ExclusionRange{
			Start: calendar.MonthDay{Month: time.Month(e.Start.Month), Day: e.Start.Day},
			End:   calendar.MonthDay{Month: time.Month(e.End.Month), Day: e.End.Day},
		})
	}
	return ranges
}
