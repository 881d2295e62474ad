package config

import (
	"errors"
	"fmt"
	"strings"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate ensures the configuration is usable. Every problem is reported
// in one error.
func (c *Config) Validate() error {
	var errs []string

	if c.Quota <= 0 {
		errs = append(errs, fmt.Sprintf("quota must be positive, got %d", c.Quota))
	}
	if c.Dataset == "" {
		errs = append(errs, "dataset must be set")
	}
	if !logLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel))
	}
	if c.Generate.Concurrency < 1 {
		errs = append(errs, "generate.concurrency must be at least 1")
	}
	if c.Generate.MaxTokens < 1 {
		errs = append(errs, "generate.max_tokens must be at least 1")
	}
	if c.Generate.Temperature < 0 || c.Generate.Temperature > 1 {
		errs = append(errs, "generate.temperature must be between 0 and 1")
	}
	if c.Generate.Difficulty < 0 || c.Generate.Difficulty > 5 {
		errs = append(errs, "generate.difficulty must be between 0 and 5")
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}
