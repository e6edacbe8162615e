package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pdf2xlsx/internal/detect"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/workbook"
	"pdf2xlsx/pkg/models"
)

type Config struct {
	// Table Detection Configuration
	RowThreshold         float64
	ColumnThreshold      float64
	MinGridDensity       float64
	MinColumnConsistency float64
	MinRows              int
	MinCols              int
	MergedCellThreshold  float64
	DetectMultipleTables bool

	// Sheet Configuration
	MaxSheetNameLength int
	IncludePageNumbers bool
	AutoFilter         bool
	AutoFitColumns     bool
	BoldHeaders        bool

	// Conversion Configuration
	Workers int

	// Google Sheets Configuration
	GoogleSheetURL string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		RowThreshold:         getEnvFloat("TABLE_ROW_THRESHOLD", detect.DefaultRowThreshold),
		ColumnThreshold:      getEnvFloat("TABLE_COLUMN_THRESHOLD", detect.DefaultColumnThreshold),
		MinGridDensity:       getEnvFloat("TABLE_MIN_GRID_DENSITY", detect.DefaultMinGridDensity),
		MinColumnConsistency: getEnvFloat("TABLE_MIN_COLUMN_CONSISTENCY", detect.DefaultMinColumnConsistency),
		MinRows:              getEnvInt("TABLE_MIN_ROWS", detect.DefaultMinRows),
		MinCols:              getEnvInt("TABLE_MIN_COLS", detect.DefaultMinCols),
		MergedCellThreshold:  getEnvFloat("TABLE_MERGED_CELL_THRESHOLD", detect.DefaultMergedCellThreshold),
		DetectMultipleTables: getEnvBool("TABLE_DETECT_MULTIPLE", true),
		MaxSheetNameLength:   getEnvInt("SHEET_MAX_NAME_LENGTH", workbook.DefaultMaxSheetNameLength),
		IncludePageNumbers:   getEnvBool("SHEET_INCLUDE_PAGE_NUMBERS", true),
		AutoFilter:           getEnvBool("SHEET_AUTO_FILTER", true),
		AutoFitColumns:       getEnvBool("SHEET_AUTO_FIT_COLUMNS", true),
		BoldHeaders:          getEnvBool("SHEET_BOLD_HEADERS", true),
		Workers:              getEnvInt("CONVERT_WORKERS", workbook.DefaultWorkers),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	d := detect.DefaultConfig()
	w := workbook.DefaultOptions()
	return &Config{
		RowThreshold:         d.RowThreshold,
		ColumnThreshold:      d.ColumnThreshold,
		MinGridDensity:       d.MinGridDensity,
		MinColumnConsistency: d.MinColumnConsistency,
		MinRows:              d.MinRows,
		MinCols:              d.MinCols,
		MergedCellThreshold:  d.MergedCellThreshold,
		DetectMultipleTables: d.DetectMultipleTables,
		MaxSheetNameLength:   w.MaxSheetNameLength,
		IncludePageNumbers:   w.IncludePageNumbers,
		AutoFilter:           true,
		AutoFitColumns:       true,
		BoldHeaders:          true,
		Workers:              w.Workers,
		LogLevel:             "info",
		LogFormat:            "console",
		LogTimeFormat:        "2006-01-02T15:04:05Z07:00",
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	if err := c.DetectConfig().Validate(); err != nil {
		return err
	}
	if c.MaxSheetNameLength < 1 || c.MaxSheetNameLength > workbook.DefaultMaxSheetNameLength {
		return fmt.Errorf("SHEET_MAX_NAME_LENGTH must be between 1 and %d", workbook.DefaultMaxSheetNameLength)
	}
	if c.Workers < 1 {
		return fmt.Errorf("CONVERT_WORKERS must be at least 1")
	}
	return nil
}

// DetectConfig returns the table detection settings
func (c *Config) DetectConfig() detect.Config {
	return detect.Config{
		RowThreshold:         c.RowThreshold,
		ColumnThreshold:      c.ColumnThreshold,
		MinGridDensity:       c.MinGridDensity,
		MinColumnConsistency: c.MinColumnConsistency,
		MinRows:              c.MinRows,
		MinCols:              c.MinCols,
		MergedCellThreshold:  c.MergedCellThreshold,
		DetectMultipleTables: c.DetectMultipleTables,
	}
}

// WorkbookOptions returns the sheet assembly settings
func (c *Config) WorkbookOptions() workbook.Options {
	return workbook.Options{
		IncludePageNumbers:   c.IncludePageNumbers,
		DetectMultipleTables: c.DetectMultipleTables,
		MaxSheetNameLength:   c.MaxSheetNameLength,
		Workers:              c.Workers,
	}
}

// WriteOptions returns the spreadsheet formatting settings
func (c *Config) WriteOptions() models.WriteOptions {
	return models.WriteOptions{
		AutoFilter:     c.AutoFilter,
		AutoFitColumns: c.AutoFitColumns,
		BoldHeaders:    c.BoldHeaders,
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}
