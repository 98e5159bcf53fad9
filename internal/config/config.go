// Copyright 2026 The Singlet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the singlet configuration file that describes
// where a dataset lives and how plots are drawn by default.
//
// A configuration is YAML or TOML, chosen by file extension:
//
//	dataset:
//	  counts_table: counts.tsv
//	  samplesheet: samples.tsv
//	  spikeins: [ERCC-00002, ERCC-00003]
//	  other_features: [__no_feature, __ambiguous]
//	plot:
//	  colormap: plasma
//
// Relative paths are resolved against the directory holding the
// configuration file.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/singlet-bio/singlet/dataset"
	"github.com/singlet-bio/singlet/errors"
)

const (
	// EnvVar names the environment variable consulted when no
	// configuration file is given explicitly.
	EnvVar = "SINGLET_CONFIG_FILENAME"

	// DefaultFilename is used when neither a flag nor EnvVar is set.
	DefaultFilename = "singlet.yml"
)

type Config struct {
	Dataset Dataset `yaml:"dataset" toml:"dataset"`
	Plot    Plot    `yaml:"plot" toml:"plot"`

	// Dir is the directory relative paths are resolved against.
	Dir string `yaml:"-" toml:"-"`
}

type Dataset struct {
	Counts       string `yaml:"counts_table" toml:"counts_table"`
	SampleSheet  string `yaml:"samplesheet" toml:"samplesheet"`
	FeatureSheet string `yaml:"featuresheet" toml:"featuresheet"`

	// Sep is "tab", "comma", or a single character. Empty picks
	// the separator from each file's extension.
	Sep string `yaml:"sep" toml:"sep"`

	Pseudocount   float64  `yaml:"pseudocount" toml:"pseudocount"`
	SpikeIns      []string `yaml:"spikeins" toml:"spikeins"`
	OtherFeatures []string `yaml:"other_features" toml:"other_features"`
	Normalized    string   `yaml:"normalized" toml:"normalized"`
	Categorical   []string `yaml:"categorical" toml:"categorical"`
}

type Plot struct {
	Color    string  `yaml:"color" toml:"color"`
	Colormap string  `yaml:"colormap" toml:"colormap"`
	Width    float64 `yaml:"width" toml:"width"`
	Height   float64 `yaml:"height" toml:"height"`
}

// Resolve returns the configuration file to read: flag if non-empty,
// else the value of EnvVar, else DefaultFilename.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	return DefaultFilename
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeIO, err, "reading config")
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a configuration. ext selects the format: ".toml" for
// TOML, ".yml" or ".yaml" for YAML.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInvalidData, err, "parsing TOML")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.CodeInvalidData, "parsing TOML: unknown field %q", keys[0].String())
		}
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(errors.CodeInvalidData, err, "parsing YAML")
		}
	default:
		return nil, errors.Config("unknown config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration errors that do not depend on the
// files the configuration names.
func (c *Config) Validate() error {
	if c.Dataset.Counts == "" {
		return errors.Config("dataset.counts_table is required")
	}
	if _, err := c.sep(); err != nil {
		return err
	}
	if c.Dataset.Pseudocount < 0 {
		return errors.Config("negative pseudocount %v", c.Dataset.Pseudocount)
	}
	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return errors.Config("negative figure size %vx%v", c.Plot.Width, c.Plot.Height)
	}
	return nil
}

func (c *Config) sep() (rune, error) {
	switch s := c.Dataset.Sep; s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	default:
		r := []rune(s)
		if len(r) != 1 {
			return 0, errors.Config("bad separator %q", s)
		}
		return r[0], nil
	}
}

// Source returns the dataset.Source this configuration describes.
func (c *Config) Source() dataset.Source {
	sep, _ := c.sep()
	return dataset.Source{
		CountsPath:       c.path(c.Dataset.Counts),
		SampleSheetPath:  c.path(c.Dataset.SampleSheet),
		FeatureSheetPath: c.path(c.Dataset.FeatureSheet),
		Sep:              sep,
		Pseudocount:      c.Dataset.Pseudocount,
		SpikeIns:         c.Dataset.SpikeIns,
		OtherFeatures:    c.Dataset.OtherFeatures,
		Normalized:       c.Dataset.Normalized,
		Categorical:      c.Dataset.Categorical,
	}
}

func (c *Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}
