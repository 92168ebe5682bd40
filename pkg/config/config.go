package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log    LogConfig
	Roster RosterConfig
	Solver SolverConfig
	Output OutputConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// RosterConfig selects the roster document and the month to plan. Year
// and Month pick a calendar; Slots is used when they are unset. Zero
// values defer to the document, as does an empty CrossSites.
type RosterConfig struct {
	File       string
	Year       int
	Month      int
	Slots      int
	CrossSites []string
}

type SolverConfig struct {
	Seed    int64
	Timeout time.Duration
}

type OutputConfig struct {
	Dir         string
	Formats     []string
	MetricsFile string
}

var flagKeys = map[string]string{
	"env":           "ENV",
	"log-level":     "LOG_LEVEL",
	"log-format":    "LOG_FORMAT",
	"roster":        "ROSTER_FILE",
	"year":          "YEAR",
	"month":         "MONTH",
	"slots":         "SLOTS",
	"cross-sites":   "CROSS_SITES",
	"seed":          "SEED",
	"solve-timeout": "SOLVE_TIMEOUT",
	"output-dir":    "OUTPUT_DIR",
	"formats":       "OUTPUT_FORMATS",
	"metrics-file":  "METRICS_FILE",
}

// Flags returns the command line flags Load understands. Flags that are
// set win over the environment and the .env file.
func Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("roster", pflag.ContinueOnError)
	flags.String("env", EnvDevelopment, "runtime environment (development or production)")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "", "log encoding (json or console)")
	flags.StringP("roster", "f", "roster.yaml", "roster document (.yaml, .yml or .json)")
	flags.Int("year", 0, "calendar year to plan")
	flags.Int("month", 0, "calendar month to plan (1-12)")
	flags.Int("slots", 0, "number of weekends when no calendar month is given (4 or 5)")
	flags.String("cross-sites", "", "comma separated sites that together cover every weekend (default from the roster document, then OH,TV)")
	flags.Int64("seed", 42, "seed for the relaxation order")
	flags.Duration("solve-timeout", 30*time.Second, "time budget of a single solve attempt")
	flags.StringP("output-dir", "o", "out", "directory for exported rosters")
	flags.String("formats", "csv,pdf,text", "comma separated export formats (csv, pdf, text)")
	flags.String("metrics-file", "", "write Prometheus metrics to this file")
	return flags
}

// Load reads configuration from the optional .env file, the environment
// and args, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	flags := Flags()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")
	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}
	cfg.Roster = RosterConfig{
		File:       v.GetString("ROSTER_FILE"),
		Year:       v.GetInt("YEAR"),
		Month:      v.GetInt("MONTH"),
		Slots:      v.GetInt("SLOTS"),
		CrossSites: splitAndTrim(v.GetString("CROSS_SITES")),
	}
	timeout, err := parseDuration(v.GetString("SOLVE_TIMEOUT"), 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SOLVE_TIMEOUT: %w", err)
	}
	cfg.Solver = SolverConfig{
		Seed:    v.GetInt64("SEED"),
		Timeout: timeout,
	}
	cfg.Output = OutputConfig{
		Dir:         v.GetString("OUTPUT_DIR"),
		Formats:     splitAndTrim(v.GetString("OUTPUT_FORMATS")),
		MetricsFile: v.GetString("METRICS_FILE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("ROSTER_FILE", "roster.yaml")
	v.SetDefault("YEAR", 0)
	v.SetDefault("MONTH", 0)
	v.SetDefault("SLOTS", 0)
	v.SetDefault("CROSS_SITES", "")
	v.SetDefault("SEED", 42)
	v.SetDefault("SOLVE_TIMEOUT", "30s")
	v.SetDefault("OUTPUT_DIR", "out")
	v.SetDefault("OUTPUT_FORMATS", "csv,pdf,text")
	v.SetDefault("METRICS_FILE", "")
}

func (c *Config) validate() error {
	if c.Roster.Month < 0 || c.Roster.Month > 12 {
		return fmt.Errorf("MONTH must be between 1 and 12, got %d", c.Roster.Month)
	}
	if (c.Roster.Year == 0) != (c.Roster.Month == 0) {
		return fmt.Errorf("YEAR and MONTH must be set together")
	}
	if c.Roster.Slots != 0 && c.Roster.Slots != 4 && c.Roster.Slots != 5 {
		return fmt.Errorf("SLOTS must be 4 or 5, got %d", c.Roster.Slots)
	}
	if c.Solver.Timeout <= 0 {
		return fmt.Errorf("SOLVE_TIMEOUT must be positive")
	}
	for _, format := range c.Output.Formats {
		switch format {
		case "csv", "pdf", "text":
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
	}
	return nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
