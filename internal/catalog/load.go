package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/quotafill/internal/dataset"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Format selects the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Seed returns the catalog built into the binary.
func Seed() (*Static, error) {
	c, err := Parse(seedYAML, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads and validates a catalog file. The file maps skill IDs to
// candidate lists, the same shape as the batch exercise files:
//
//	{"积分技巧Skill": [{"id": "exercise-adv-007", ...}]}
func LoadFile(path string) (*Static, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadFiles loads every path and merges them in order.
func LoadFiles(paths []string) (*Static, error) {
	cats := make([]*Static, 0, len(paths))
	for _, p := range paths {
		c, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return Merge(cats...), nil
}

// Parse decodes and validates catalog data.
func Parse(data []byte, format Format) (*Static, error) {
	raw := map[string][]dataset.Exercise{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	c := New()
	for _, id := range ids {
		c.Add(id, raw[id]...)
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode renders the catalog in the given format, skills sorted by ID.
func Encode(c *Static, format Format) ([]byte, error) {
	out := make(map[string][]dataset.Exercise, len(c.entries))
	for _, k := range c.orderedKeys() {
		out[c.ids[k]] = c.entries[k]
	}
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
}
