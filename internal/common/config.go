package common

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/energy-invoices/constants"
)

// EnvPrefix prefixes every environment variable the tool reads.
const EnvPrefix = "FATURAS"

// Config holds all application configuration
type Config struct {
	Batch   BatchConfig
	Extract ExtractConfig
	Log     LogConfig
}

// BatchConfig holds input/output and scheduling settings
type BatchConfig struct {
	Input          string
	Output         string
	OutputDir      string
	Workers        int
	ProcessTimeout time.Duration
	CachePath      string
	Extended       bool
	Watch          bool
	Debounce       time.Duration
}

// ExtractConfig holds field extraction tuning
type ExtractConfig struct {
	Window    int
	RulesPath string
	DumpDir   string
}

// LogConfig holds logger settings
type LogConfig struct {
	Debug  bool
	Format string
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return NewAppError(CodeConfig, "load "+p, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Batch: BatchConfig{
			Input:          getEnv("INPUT", constants.DefaultInputDir),
			Output:         getEnv("OUTPUT", ""),
			OutputDir:      getEnv("OUTPUT_DIR", constants.DefaultOutputDir),
			Workers:        getEnvAsInt("WORKERS", 1),
			ProcessTimeout: getEnvAsDuration("PROCESS_TIMEOUT", 2*time.Minute),
			CachePath:      getEnv("CACHE", ""),
			Extended:       getEnvAsBool("EXTENDED", false),
			Watch:          getEnvAsBool("WATCH", false),
			Debounce:       getEnvAsDuration("DEBOUNCE", 2*time.Second),
		},
		Extract: ExtractConfig{
			Window:    getEnvAsInt("WINDOW", 2),
			RulesPath: getEnv("RULES", ""),
			DumpDir:   getEnv("DUMP_DIR", ""),
		},
		Log: LogConfig{
			Debug:  getEnvAsBool("DEBUG", false),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + "_" + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := getEnv(key, ""); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := getEnv(key, ""); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := getEnv(key, ""); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("input", c.Batch.Input, Required).
		Field("workers", c.Batch.Workers, MinInt(1)).
		Field("window", c.Extract.Window, MinInt(0)).
		Field("log-format", c.Log.Format, OneOf("text", "json"))
	if c.Batch.Output == "" {
		v.Field("output-dir", c.Batch.OutputDir, Required)
	}
	return v.Err(CodeConfig)
}

// OutputPath returns the workbook path for a run started at now. An explicit
// output wins; otherwise a timestamped name is placed in OutputDir. A missing
// .xlsx extension is appended.
func (c *Config) OutputPath(now time.Time) string {
	out := strings.TrimSpace(c.Batch.Output)
	if out == "" {
		name := constants.OutputFilePrefix + now.Format(constants.OutputTimestamp) + constants.OutputFileExt
		return filepath.Join(c.Batch.OutputDir, name)
	}
	if !strings.EqualFold(filepath.Ext(out), constants.OutputFileExt) {
		out += constants.OutputFileExt
	}
	return out
}
