// Package config holds the tunable settings of all commands. Settings
// are read with viper from an optional file and GENELAB_* environment
// variables on top of the built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/op/go-logging"
	"github.com/spf13/viper"

	"bitbucket.org/Davydov/genelab/bio"
	"bitbucket.org/Davydov/genelab/primer"
	"bitbucket.org/Davydov/genelab/restriction"
)

var log = logging.MustGetLogger("config")

// EnvPrefix is the prefix of environment variables.
const EnvPrefix = "genelab"

// DigestConfig is the restriction analysis settings.
type DigestConfig struct {
	// the default enzyme name
	Enzyme string `mapstructure:"enzyme"`
}

// UPGMAConfig is the tree building settings.
type UPGMAConfig struct {
	// treat missing distances as zero
	Lenient bool `mapstructure:"lenient"`
	// dendrogram size in inches
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// FormatConfig controls sequence output.
type FormatConfig struct {
	// plain, ansi or html
	Markup string `mapstructure:"markup"`
}

// Config is the root-level settings struct.
type Config struct {
	Primer primer.Settings `mapstructure:"primer"`
	Digest DigestConfig    `mapstructure:"digest"`
	UPGMA  UPGMAConfig     `mapstructure:"upgma"`
	Format FormatConfig    `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	p := primer.DefaultSettings()
	v.SetDefault("primer.target-tm", p.TargetTm)
	v.SetDefault("primer.min-length", p.MinLength)
	v.SetDefault("primer.max-length", p.MaxLength)
	v.SetDefault("primer.margin", p.Margin)
	v.SetDefault("primer.reverse-offset", p.ReverseOffset)
	v.SetDefault("primer.max-tm-difference", p.MaxTmDifference)
	v.SetDefault("primer.min-gc", p.MinGC)
	v.SetDefault("primer.max-gc", p.MaxGC)
	v.SetDefault("primer.max-amplicon", p.MaxAmplicon)
	v.SetDefault("primer.min-template", p.MinTemplate)

	v.SetDefault("digest.enzyme", "EcoRI")

	v.SetDefault("upgma.lenient", false)
	v.SetDefault("upgma.width", 6)
	v.SetDefault("upgma.height", 4)

	v.SetDefault("format.markup", "plain")
}

// New reads the settings. If fn is not empty, the file is read, its
// format is determined by the extension (yaml, json, toml, ...).
func New(fn string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fn != "" {
		v.SetConfigFile(fn)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", fn, err)
		}
		log.Infof("Using config file %s", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Check validates the settings.
func (c *Config) Check() error {
	if err := c.Primer.Check(); err != nil {
		return err
	}
	if _, ok := restriction.Lookup(c.Digest.Enzyme); !ok {
		return fmt.Errorf("unknown enzyme %q", c.Digest.Enzyme)
	}
	if c.UPGMA.Width <= 0 || c.UPGMA.Height <= 0 {
		return fmt.Errorf("wrong dendrogram size %vx%v", c.UPGMA.Width, c.UPGMA.Height)
	}
	if _, ok := bio.Markups[c.Format.Markup]; !ok {
		return fmt.Errorf("unknown markup %q", c.Format.Markup)
	}
	return nil
}
