// Package config loads the docextract configuration file.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docextract.yaml"

// Default returns the built-in configuration, as used when no file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads the configuration at path.
//
// When explicit is false a missing file is not an error and the built-in
// defaults are returned; an explicitly requested file must exist. .env files
// are loaded first and ${VAR} references in the file are expanded.
func Load(path string, explicit bool) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
		return Default(), nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	return Parse(data)
}

// Parse decodes, normalizes, defaults and validates raw YAML.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var c Config
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	res, err := NormalizeConfig(&c)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "normalize").Build()
	}
	for _, w := range res.Warnings {
		slog.Warn("config normalization", slog.String("warning", w))
	}

	applyDefaults(&c)

	if err := ValidateConfig(&c); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "configuration validation failed").Build()
	}
	return &c, nil
}

// Init writes an example configuration file holding the built-in defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

const exampleConfig = `# docextract configuration
# Values of the form ${VAR} are expanded from the environment (.env is loaded).

source:
  root: source/fluentasserts/operations
  extension: .d
  exclude_files: [package.d, registry.d]
  # ignore: ["**/internal/**"]

output:
  root: docs/src/content/docs/api
  extension: .mdx
  clean: false

render:
  code_language: d
  basic_limit: 3
  negation_limit: 2
  uid: false
  fingerprint: false
  verify: true

logging:
  level: info   # debug|info|warn|error
  format: text  # text|json

metrics:
  textfile: ""  # e.g. /var/lib/node_exporter/docextract.prom

history:
  database: ""  # e.g. .docextract/history.db

stamp:
  repository: .
  public_dir: docs/public
  content_dir: docs/src/content/docs
  package_name: fluent-asserts

schedule:
  interval: 1h

watch:
  debounce: 300ms
`
