package main

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/arrayrt/array"
)

// Config is the arrayctl configuration file.
type Config struct {
	// Types maps alias names to specifier text.
	Types  map[string]string `yaml:"types"`
	Arrays []ArraySpec       `yaml:"arrays"`
	Cache  CacheSpec         `yaml:"cache"`
}

// ArraySpec describes one array to build.
type ArraySpec struct {
	Name            string `yaml:"name"`
	ElementType     string `yaml:"element_type"`
	Dimensions      []int  `yaml:"dimensions"`
	Adjustable      bool   `yaml:"adjustable"`
	FillPointer     *int   `yaml:"fill_pointer"`
	InitialElement  any    `yaml:"initial_element"`
	InitialContents any    `yaml:"initial_contents"`
}

// CacheSpec holds the cache command defaults.
type CacheSpec struct {
	HashBits uint `yaml:"hash_bits"`
	Keys     int  `yaml:"keys"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) typeNames() []string {
	names := make([]string, 0, len(c.Types))
	for name := range c.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Array returns the array description called name.
func (c *Config) Array(name string) (ArraySpec, error) {
	for _, a := range c.Arrays {
		if a.Name == name {
			return a, nil
		}
	}
	return ArraySpec{}, fmt.Errorf("no array named %q in config", name)
}

// Options converts the description into array options.
func (s ArraySpec) Options() []array.Option {
	var opts []array.Option
	if s.Adjustable {
		opts = append(opts, array.Adjustable())
	}
	if s.FillPointer != nil {
		opts = append(opts, array.FillPointerAt(*s.FillPointer))
	}
	if s.InitialElement != nil {
		opts = append(opts, array.InitialElement(s.InitialElement))
	}
	if s.InitialContents != nil {
		opts = append(opts, array.InitialContents(s.InitialContents))
	}
	return opts
}
