package config

import (
	"git.home.luguber.info/inful/docextract/internal/render"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

// Built-in defaults, laid out for a repository with the documentation site in
// docs/.
const (
	DefaultSourceRoot      = "source/fluentasserts/operations"
	DefaultOutputRoot      = "docs/src/content/docs/api"
	DefaultOutputExtension = ".mdx"
	DefaultStampRepository = "."
	DefaultStampPublicDir  = "docs/public"
	DefaultStampContentDir = "docs/src/content/docs"
	DefaultPackageName     = "fluent-asserts"
	DefaultInterval        = "1h"
	DefaultDebounce        = "300ms"
)

// applyDefaults fills every unset field. It runs after normalization.
func applyDefaults(c *Config) {
	if c.Source.Root == "" {
		c.Source.Root = DefaultSourceRoot
	}
	if c.Source.Extension == "" {
		c.Source.Extension = sources.DefaultExtension
	}
	if c.Source.ExcludeFiles == nil {
		c.Source.ExcludeFiles = append([]string(nil), sources.DefaultExcludeFiles...)
	}

	if c.Output.Root == "" {
		c.Output.Root = DefaultOutputRoot
	}
	if c.Output.Extension == "" {
		c.Output.Extension = DefaultOutputExtension
	}

	if c.Render.CodeLanguage == "" {
		c.Render.CodeLanguage = render.DefaultCodeLanguage
	}
	if c.Render.BasicLimit == 0 {
		c.Render.BasicLimit = render.DefaultBasicLimit
	}
	if c.Render.NegationLimit == 0 {
		c.Render.NegationLimit = render.DefaultNegationLimit
	}

	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}

	if c.Stamp.Repository == "" {
		c.Stamp.Repository = DefaultStampRepository
	}
	if c.Stamp.PublicDir == "" {
		c.Stamp.PublicDir = DefaultStampPublicDir
	}
	if c.Stamp.ContentDir == "" {
		c.Stamp.ContentDir = DefaultStampContentDir
	}
	if c.Stamp.PackageName == "" {
		c.Stamp.PackageName = DefaultPackageName
	}

	if c.Schedule.Interval == "" {
		c.Schedule.Interval = DefaultInterval
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce
	}
}
