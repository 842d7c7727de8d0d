package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a catalog file. The format is chosen by extension
// (.toml, .yaml, .yml). Tables absent from the file keep their built-in
// defaults; a table present in the file replaces the default entirely.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes catalog data in the format named by ext.
func Parse(data []byte, ext string) (*Catalog, error) {
	c := &Catalog{}

	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("parse catalog toml: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("parse catalog yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}

	merged := Default().overlay(c)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return merged, nil
}

// overlay replaces every table of c that is set in o.
func (c *Catalog) overlay(o *Catalog) *Catalog {
	if o.RotatedCards != nil {
		c.RotatedCards = o.RotatedCards
	}
	if o.ReprintExceptions != nil {
		c.ReprintExceptions = o.ReprintExceptions
	}
	if o.FormatReplacements != nil {
		c.FormatReplacements = o.FormatReplacements
	}
	if o.RainbowMarkers != nil {
		c.RainbowMarkers = o.RainbowMarkers
	}
	if o.ColorlessMarkers != nil {
		c.ColorlessMarkers = o.ColorlessMarkers
	}
	if o.EvolutionChains != nil {
		c.EvolutionChains = o.EvolutionChains
	}
	if o.EvolutionSuffixes != nil {
		c.EvolutionSuffixes = o.EvolutionSuffixes
	}
	if o.RareCandy != "" {
		c.RareCandy = o.RareCandy
	}
	if o.StrategyRules != nil {
		c.StrategyRules = o.StrategyRules
	}
	if o.OpponentRoster != nil {
		c.OpponentRoster = o.OpponentRoster
	}
	if o.StapleTrainers != nil {
		c.StapleTrainers = o.StapleTrainers
	}
	if o.UpgradeTiers != nil {
		c.UpgradeTiers = o.UpgradeTiers
	}
	return c
}

// WriteTOML writes the catalog as TOML, e.g. to seed an editable file from
// the defaults.
func (c *Catalog) WriteTOML(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}
