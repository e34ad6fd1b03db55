package config

import (
	"fmt"
	"time"

	"github.com/gobwas/glob"
)

// ValidateConfig checks a normalized, defaulted configuration.
func ValidateConfig(c *Config) error {
	if c.Source.Root == "" {
		return fmt.Errorf("source.root must not be empty")
	}
	if c.Output.Root == "" {
		return fmt.Errorf("output.root must not be empty")
	}
	if c.Source.Extension == "." {
		return fmt.Errorf("source.extension must name an extension")
	}
	if c.Output.Extension == "." {
		return fmt.Errorf("output.extension must name an extension")
	}
	for _, p := range c.Source.Ignore {
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("source.ignore: invalid pattern %q: %w", p, err)
		}
	}
	if c.Render.BasicLimit < 0 {
		return fmt.Errorf("render.basic_limit must be positive, got %d", c.Render.BasicLimit)
	}
	if c.Render.NegationLimit < 0 {
		return fmt.Errorf("render.negation_limit must be positive, got %d", c.Render.NegationLimit)
	}
	if _, err := c.Schedule.Every(); err != nil {
		return err
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		return err
	}
	return nil
}

// Every parses the schedule interval. It must be at least one second.
func (s ScheduleConfig) Every() (time.Duration, error) {
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("schedule.interval: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("schedule.interval must be at least 1s, got %s", d)
	}
	return d, nil
}

// DebounceDuration parses the watch debounce window.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("watch.debounce must not be negative, got %s", d)
	}
	return d, nil
}
