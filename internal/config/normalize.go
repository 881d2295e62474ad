package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QUOTAFILL_"

func (c *Config) normalize() error {
	if err := c.applyEnv(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	return nil
}

// applyEnv overlays QUOTAFILL_* variables. QUOTAFILL_CATALOGS is a
// comma-separated list.
func (c *Config) applyEnv() error {
	if v, ok := lookup("QUOTA"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sQUOTA: %w", EnvPrefix, err)
		}
		c.Quota = n
	}
	if v, ok := lookup("DATASET"); ok {
		c.Dataset = v
	}
	if v, ok := lookup("CATALOGS"); ok {
		c.Catalogs = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Catalogs = append(c.Catalogs, p)
			}
		}
	}
	if v, ok := lookup("USE_SEED_CATALOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sUSE_SEED_CATALOG: %w", EnvPrefix, err)
		}
		c.UseSeedCatalog = b
	}
	if v, ok := lookup("DB"); ok {
		c.DBPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Dataset, err = expandPath(strings.TrimSpace(c.Dataset)); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	for i, p := range c.Catalogs {
		if c.Catalogs[i], err = expandPath(strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("catalogs[%d]: %w", i, err)
		}
	}
	if c.DBPath, err = expandPath(strings.TrimSpace(c.DBPath)); err != nil {
		return fmt.Errorf("db_path: %w", err)
	}
	if c.Generate.Output, err = expandPath(strings.TrimSpace(c.Generate.Output)); err != nil {
		return fmt.Errorf("generate.output: %w", err)
	}
	return nil
}
