// Package config loads the YAML configuration that binds a language setup
// to its compiled automata: the left-context phone set, the
// beginning-of-utterance unit, the label-packing offset, and the map from
// named nonterminal to the file implementing it.
package config

import (
	"os"
	"path/filepath"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/errors"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/prepare"
	"github.com/aurelab/grammarfst/stitch"
	"github.com/aurelab/grammarfst/symbol"
	"gopkg.in/yaml.v3"
)

// Grammar names one sub-grammar automaton.
type Grammar struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	ID   int32  `yaml:"id"`
}

// Config is the load-time configuration for one engine.
type Config struct {
	TopLevel            string    `yaml:"top_level"`
	Grammars            []Grammar `yaml:"grammars"`
	ContextPhones       []int32   `yaml:"context_phones"`
	BOSPhone            int32     `yaml:"bos_phone"`
	NontermPhonesOffset int32     `yaml:"nonterm_phones_offset"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.BadConfig("read %s: %v", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindBadConfig).
			Detail("parse yaml").Cause(err).Build()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration without touching the filesystem.
func (c *Config) Validate() error {
	if c.TopLevel == "" {
		return errors.BadConfig("top_level path is missing")
	}
	if len(c.ContextPhones) == 0 {
		return errors.BadConfig("context_phones is empty")
	}
	seen := make(map[int32]string, len(c.Grammars))
	for _, g := range c.Grammars {
		if g.Path == "" {
			return errors.BadConfig("grammar %q has no path", g.Name)
		}
		if !symbol.Nonterminal(g.ID).User() {
			return errors.BadConfig("grammar %q id %d is in the reserved range", g.Name, g.ID)
		}
		if prior, dup := seen[g.ID]; dup {
			return errors.BadConfig("grammars %q and %q share id %d", prior, g.Name, g.ID)
		}
		seen[g.ID] = g.Name
	}
	return nil
}

// Options converts the configuration into engine options.
func (c *Config) Options() stitch.Options {
	phones := make([]grammarfst.PhoneID, len(c.ContextPhones))
	for i, p := range c.ContextPhones {
		phones[i] = grammarfst.PhoneID(p)
	}
	return stitch.Options{
		ContextPhones:       phones,
		BOSPhone:            grammarfst.PhoneID(c.BOSPhone),
		NontermPhonesOffset: c.NontermPhonesOffset,
	}
}

// BuildEngine loads every automaton named by the configuration, prepares
// it, and assembles the stitching engine. Relative automaton paths are
// resolved against baseDir.
func BuildEngine(c *Config, baseDir string) (*stitch.Stitcher, error) {
	enc, err := symbol.NewEncoder(c.NontermPhonesOffset)
	if err != nil {
		return nil, err
	}
	opts := c.Options()
	ctx, err := symbol.NewContextSet(opts.ContextPhones, opts.BOSPhone)
	if err != nil {
		return nil, err
	}

	load := func(path string) (*prepare.Prepared, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		raw, err := fst.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return prepare.Prepare(raw, enc, ctx)
	}

	top, err := load(c.TopLevel)
	if err != nil {
		return nil, err
	}
	grammars := make(map[symbol.Nonterminal]*prepare.Prepared, len(c.Grammars))
	for _, g := range c.Grammars {
		p, err := load(g.Path)
		if err != nil {
			return nil, err
		}
		grammars[symbol.Nonterminal(g.ID)] = p
	}

	return stitch.New(opts, top, grammars)
}
