package config

// Config is the docextract configuration file.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Output   OutputConfig   `yaml:"output"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	History  HistoryConfig  `yaml:"history"`
	Stamp    StampConfig    `yaml:"stamp"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Watch    WatchConfig    `yaml:"watch"`
}

// SourceConfig selects the candidate source files.
type SourceConfig struct {
	Root         string   `yaml:"root"`
	Extension    string   `yaml:"extension"`     // Source file extension, e.g. ".d"
	ExcludeFiles []string `yaml:"exclude_files"` // File names that are infrastructure, not content
	Ignore       []string `yaml:"ignore"`        // Glob patterns relative to root
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
	Clean     bool   `yaml:"clean"` // Remove the output root before writing
}

// RenderConfig controls the generated page layout.
type RenderConfig struct {
	CodeLanguage  string `yaml:"code_language"`
	BasicLimit    int    `yaml:"basic_limit"`
	NegationLimit int    `yaml:"negation_limit"`
	UID           bool   `yaml:"uid"`
	Fingerprint   bool   `yaml:"fingerprint"`
	// Verify is a pointer so an absent key can default to true.
	Verify *bool `yaml:"verify,omitempty"`
}

// VerifyEnabled reports whether rendered pages are verified.
func (r RenderConfig) VerifyEnabled() bool {
	return r.Verify == nil || *r.Verify
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// HistoryConfig enables the SQLite run journal.
type HistoryConfig struct {
	Database string `yaml:"database"`
}

// StampConfig configures version stamping of the documentation site.
type StampConfig struct {
	Repository  string `yaml:"repository"`   // Git repository the version is read from
	PublicDir   string `yaml:"public_dir"`   // version.json destination
	ContentDir  string `yaml:"content_dir"`  // Markdown tree to rewrite
	PackageName string `yaml:"package_name"` // Dependency name in install snippets
}

// ScheduleConfig configures the schedule command.
type ScheduleConfig struct {
	Interval string `yaml:"interval"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}
