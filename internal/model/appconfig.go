package model

import "time"

// AppConfig holds service-wide settings.
type AppConfig struct {
	// HTTP server
	ListenAddr     string `json:"listen_addr"`
	ReadTimeoutMS  int    `json:"read_timeout_ms"`
	WriteTimeoutMS int    `json:"write_timeout_ms"`
	PackTimeoutMS  int    `json:"pack_timeout_ms"` // upper bound for one packing run, 0 = no limit

	// Storage
	DataDir string `json:"data_dir"` // directory for stored cutting sheets, empty = in memory

	// Logging
	LogFile       string `json:"log_file"`  // empty = console only
	LogLevel      string `json:"log_level"` // "debug", "info", "warn", "error"
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxBackups int    `json:"log_max_backups"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
	LogCompress   bool   `json:"log_compress"`

	// Packing defaults
	DefaultKerf     int `json:"default_kerf"`      // saw blade width in sheet units
	DefaultEdgeTrim int `json:"default_edge_trim"` // unusable border on every side
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ListenAddr:      ":8080",
		ReadTimeoutMS:   8000,
		WriteTimeoutMS:  8000,
		PackTimeoutMS:   5000,
		DataDir:         "",
		LogFile:         "",
		LogLevel:        "info",
		LogMaxSizeMB:    10,
		LogMaxBackups:   3,
		LogMaxAgeDays:   30,
		LogCompress:     false,
		DefaultKerf:     0,
		DefaultEdgeTrim: 0,
	}
}

// Normalize replaces unset or invalid values with their defaults.
func (c *AppConfig) Normalize() {
	d := DefaultAppConfig()
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.ReadTimeoutMS <= 0 {
		c.ReadTimeoutMS = d.ReadTimeoutMS
	}
	if c.WriteTimeoutMS <= 0 {
		c.WriteTimeoutMS = d.WriteTimeoutMS
	}
	if c.PackTimeoutMS < 0 {
		c.PackTimeoutMS = d.PackTimeoutMS
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogMaxSizeMB <= 0 {
		c.LogMaxSizeMB = d.LogMaxSizeMB
	}
	if c.LogMaxBackups < 0 {
		c.LogMaxBackups = d.LogMaxBackups
	}
	if c.LogMaxAgeDays <= 0 {
		c.LogMaxAgeDays = d.LogMaxAgeDays
	}
	if c.DefaultKerf < 0 {
		c.DefaultKerf = 0
	}
	if c.DefaultEdgeTrim < 0 {
		c.DefaultEdgeTrim = 0
	}
}

// ReadTimeout returns the HTTP read timeout.
func (c AppConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the HTTP write timeout.
func (c AppConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// PackTimeout returns the packing deadline, zero meaning none.
func (c AppConfig) PackTimeout() time.Duration {
	return time.Duration(c.PackTimeoutMS) * time.Millisecond
}
