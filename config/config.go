// Package config provides the YAML run configuration of a tracking run.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milosgajdos/go-lpt/fault"
	"github.com/milosgajdos/go-lpt/geom"
	"github.com/milosgajdos/go-lpt/locate"
	"github.com/milosgajdos/go-lpt/predfield"
)

// Track configures track bookkeeping.
type Track struct {
	// MaxMisses is the number of consecutive frames a track may go unmatched
	MaxMisses int `yaml:"max_misses"`
	// FPS is the acquisition frame rate used to timestamp saved tracks
	FPS float64 `yaml:"fps"`
}

// Config is a tracking run configuration.
type Config struct {
	Field  predfield.Config `yaml:"field"`
	Finder locate.Config    `yaml:"finder"`
	Track  Track            `yaml:"track"`
}

// Default returns default configuration.
func Default() Config {
	return Config{
		Field: predfield.Config{
			Limit:      geom.AxisLimit{XMin: -10, XMax: 10, YMin: -10, YMax: 10, ZMin: -10, ZMax: 10},
			N:          [3]int{5, 5, 5},
			Radius:     2,
			Resolution: predfield.DefaultResolution,
		},
		Finder: locate.Config{
			MaxIntensity: 65535,
			MinIntensity: 100,
			RadiusPx:     2,
		},
		Track: Track{
			MaxMisses: 1,
			FPS:       1,
		},
	}
}

// Validate returns error if any section of c is not usable.
func (c Config) Validate() error {
	if !c.Field.Limit.IsValid() {
		return fault.New("config.Validate", fault.ErrRange, "invalid field limit: %+v", c.Field.Limit)
	}

	for _, n := range c.Field.N {
		if n < 2 {
			return fault.New("config.Validate", fault.ErrSize, "invalid field grid: %v", c.Field.N)
		}
	}

	if err := c.Field.Validate(); err != nil {
		return err
	}

	if err := c.Finder.Validate(); err != nil {
		return err
	}

	if c.Track.MaxMisses < 0 {
		return fault.New("config.Validate", fault.ErrRange, "invalid max misses: %d", c.Track.MaxMisses)
	}

	if c.Track.FPS <= 0 {
		return fault.New("config.Validate", fault.ErrRange, "invalid frame rate: %g", c.Track.FPS)
	}

	return nil
}

// Read decodes configuration from r. Fields missing in r keep their default values.
// It returns error if r can't be decoded or the decoded configuration is invalid.
func Read(r io.Reader) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, fault.Wrap("config.Read", fault.ErrIO, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads configuration from the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fault.Wrap("config.Load", fault.ErrIO, err)
	}

	return Read(bytes.NewReader(data))
}

// Save writes c into the file at path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fault.Wrap("config.Save", fault.ErrIO, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fault.Wrap("config.Save", fault.ErrIO, err)
	}

	return nil
}
