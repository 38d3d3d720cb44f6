// Package config loads tool configuration from command-line flags,
// environment variables, and .env files.
//
// Precedence, highest first: flags, environment, .env file, defaults.
// Each command has its own flag surface but shares the logging and path
// handling.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LoggerConfig holds logging configuration shared by every command.
type LoggerConfig struct {
	Level  string
	Format string // "console" or "json"
}

// BuildConfig configures the catalog build command.
type BuildConfig struct {
	CSVPath    string
	OutputDir  string
	PageTitle  string
	MinStock   int
	ShowOOS    bool   // Include out-of-stock products in the page
	Category   string // Keep only this category (case-insensitive)
	MaxRecords int    // 0 = unlimited
	RawTitles  bool   // Skip the title cleanup pipeline
	Watch      bool   // Rebuild when the CSV changes
	WriteIndex bool   // Write a search index next to the output
	PhotosDir  string // Where the photo manifest lives

	Logger LoggerConfig
}

// PhotosConfig configures the photo fetch command.
type PhotosConfig struct {
	CSVPath   string
	OutputDir string
	Limit     int
	Overwrite bool
	Sleep     time.Duration

	Logger LoggerConfig
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	OutputDir    string // Directory the build command wrote
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Logger LoggerConfig
}

// LoadBuild parses build command configuration from args.
func LoadBuild(args []string) (*BuildConfig, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	csvPath := fs.String("csv", "", "Path to the inventory CSV export")
	outputDir := fs.String("out", "", "Output directory (default: dist)")
	pageTitle := fs.String("title", "", "Catalog page title")
	minStock := fs.String("min-stock", "", "Quantity threshold for in-stock (default: 1)")
	showOOS := fs.String("show-oos", "", "Include out-of-stock products (default: false)")
	category := fs.String("category", "", "Keep only this category")
	maxRecords := fs.String("max", "", "Cap the number of products (default: unlimited)")
	rawTitles := fs.String("no-clean-names", "", "Skip title cleanup (default: false)")
	watch := fs.String("watch", "", "Rebuild when the CSV changes (default: false)")
	writeIndex := fs.String("index", "", "Write a search index next to the output (default: false)")
	photosDir := fs.String("photos", "", "Photo directory with manifest (default: <out>/assets)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	_ = loadEnvFile(*envFile)

	cfg := &BuildConfig{
		CSVPath:    getConfigValue(*csvPath, "CATALOG_CSV", ""),
		OutputDir:  getConfigValue(*outputDir, "CATALOG_OUT", "dist"),
		PageTitle:  getConfigValue(*pageTitle, "CATALOG_TITLE", "Product Catalog"),
		MinStock:   getIntConfigValue(*minStock, "CATALOG_MIN_STOCK", 1),
		ShowOOS:    getBoolConfigValue(*showOOS, "CATALOG_SHOW_OOS", false),
		Category:   getConfigValue(*category, "CATALOG_CATEGORY", ""),
		MaxRecords: getIntConfigValue(*maxRecords, "CATALOG_MAX", 0),
		RawTitles:  getBoolConfigValue(*rawTitles, "CATALOG_RAW_TITLES", false),
		Watch:      getBoolConfigValue(*watch, "CATALOG_WATCH", false),
		WriteIndex: getBoolConfigValue(*writeIndex, "CATALOG_INDEX", false),
		PhotosDir:  getConfigValue(*photosDir, "CATALOG_PHOTOS", ""),
		Logger:     loadLoggerConfig(*logLevel, *logFormat),
	}

	var err error
	if cfg.OutputDir, err = expandPath(cfg.OutputDir, ""); err != nil {
		return nil, fmt.Errorf("invalid output dir: %w", err)
	}
	if cfg.PhotosDir == "" {
		cfg.PhotosDir = filepath.Join(cfg.OutputDir, "assets")
	} else if cfg.PhotosDir, err = expandPath(cfg.PhotosDir, ""); err != nil {
		return nil, fmt.Errorf("invalid photos dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required build settings.
func (c *BuildConfig) Validate() error {
	if c.CSVPath == "" {
		return errors.New("csv path is required (-csv or CATALOG_CSV)")
	}
	if c.MinStock < 0 {
		return fmt.Errorf("min-stock must be >= 0, got %d", c.MinStock)
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("max must be >= 0, got %d", c.MaxRecords)
	}
	return c.Logger.validate()
}

// LoadPhotos parses photo fetch configuration from args.
func LoadPhotos(args []string) (*PhotosConfig, error) {
	fs := flag.NewFlagSet("photos", flag.ContinueOnError)

	csvPath := fs.String("csv", "", "Path to the inventory CSV export")
	outputDir := fs.String("outdir", "", "Photo output directory (default: dist/assets)")
	limit := fs.String("limit", "", "Max products to attempt this run (default: unlimited)")
	overwrite := fs.String("overwrite", "", "Refetch photos that already exist (default: false)")
	sleep := fs.String("sleep", "", "Pause between products (default: 2s)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	_ = loadEnvFile(*envFile)

	cfg := &PhotosConfig{
		CSVPath:   getConfigValue(*csvPath, "CATALOG_CSV", ""),
		OutputDir: getConfigValue(*outputDir, "CATALOG_PHOTOS", filepath.Join("dist", "assets")),
		Limit:     getIntConfigValue(*limit, "PHOTOS_LIMIT", 0),
		Overwrite: getBoolConfigValue(*overwrite, "PHOTOS_OVERWRITE", false),
		Logger:    loadLoggerConfig(*logLevel, *logFormat),
	}

	sleepStr := getConfigValue(*sleep, "PHOTOS_SLEEP", "2s")
	pause, err := time.ParseDuration(sleepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid sleep %q: %w", sleepStr, err)
	}
	cfg.Sleep = pause

	if cfg.OutputDir, err = expandPath(cfg.OutputDir, ""); err != nil {
		return nil, fmt.Errorf("invalid output dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required photo fetch settings.
func (c *PhotosConfig) Validate() error {
	if c.CSVPath == "" {
		return errors.New("csv path is required (-csv or CATALOG_CSV)")
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must be >= 0, got %d", c.Limit)
	}
	if c.Sleep < 0 {
		return errors.New("sleep must not be negative")
	}
	return c.Logger.validate()
}

// LoadServe parses preview server configuration from args.
func LoadServe(args []string) (*ServeConfig, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	outputDir := fs.String("out", "", "Directory the build command wrote (default: dist)")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	_ = loadEnvFile(*envFile)

	cfg := &ServeConfig{
		OutputDir: getConfigValue(*outputDir, "CATALOG_OUT", "dist"),
		Port:      getConfigValue(*port, "SERVER_PORT", "8080"),
		Logger:    loadLoggerConfig(*logLevel, *logFormat),
	}

	var err error
	if cfg.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if cfg.OutputDir, err = expandPath(cfg.OutputDir, ""); err != nil {
		return nil, fmt.Errorf("invalid output dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required server settings.
func (c *ServeConfig) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output dir is required")
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	return c.Logger.validate()
}

// loadLoggerConfig resolves the shared logging settings.
func loadLoggerConfig(levelFlag, formatFlag string) LoggerConfig {
	return LoggerConfig{
		Level:  getConfigValue(levelFlag, "LOG_LEVEL", "info"),
		Format: getConfigValue(formatFlag, "LOG_FORMAT", "console"),
	}
}

func (c LoggerConfig) validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Format)
	}
	return nil
}

// parseDurationValue resolves a duration through the usual precedence.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), s, err)
	}
	return d, nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Real environment variables beat .env entries.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
