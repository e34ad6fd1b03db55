package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments and warnings from normalization.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig canonicalizes enumerations, trims list entries and dot
// prefixes extensions. It mutates c in place and runs before defaults.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}

	c.Source.Root = strings.TrimSpace(c.Source.Root)
	c.Source.Extension = dotted(c.Source.Extension)
	c.Source.ExcludeFiles = trimmed(c.Source.ExcludeFiles)
	c.Source.Ignore = trimmed(c.Source.Ignore)

	c.Output.Root = strings.TrimSpace(c.Output.Root)
	c.Output.Extension = dotted(c.Output.Extension)

	c.Render.CodeLanguage = strings.TrimSpace(c.Render.CodeLanguage)

	normalizeLogging(&c.Logging, res)

	c.Schedule.Interval = strings.TrimSpace(c.Schedule.Interval)
	c.Watch.Debounce = strings.TrimSpace(c.Watch.Debounce)
	return res, nil
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); strings.TrimSpace(raw) != "" {
		lvl, err := logLevelNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo)))
		} else if l.Level != lvl {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
		}
		l.Level = lvl
	}
	if raw := string(l.Format); strings.TrimSpace(raw) != "" {
		f, err := logFormatNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(LogFormatText)))
		} else if l.Format != f {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
		}
		l.Format = f
	}
}

// dotted trims ext and adds a leading dot when missing. Empty stays empty.
func dotted(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// trimmed trims every entry and drops empty ones. nil stays nil so defaults
// can tell "unset" from "explicitly empty".
func trimmed(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
