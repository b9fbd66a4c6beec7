package config

// Default configuration values.
const (
	DefaultFailIfNoTests    = true
	DefaultReportsDirectory = "reports"
	DefaultLogLevel         = "info"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyReportDefaults(cfg)
	applyLoggingDefaults(cfg)
	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
}

func applyReportDefaults(cfg *Config) {
	if cfg.Report == nil {
		cfg.Report = &ReportConfig{}
	}
	if cfg.Report.FailIfNoTests == nil {
		v := DefaultFailIfNoTests
		cfg.Report.FailIfNoTests = &v
	}
	if cfg.Report.ReportsDirectory == "" {
		cfg.Report.ReportsDirectory = DefaultReportsDirectory
	}
}

func applyLoggingDefaults(cfg *Config) {
	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
}
