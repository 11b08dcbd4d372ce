package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigCPUProfile          = "cpu-profile"
	ConfigColors              = "colors"
	ConfigWidth               = "width"
	ConfigHeight              = "height"
	ConfigSeed                = "seed"
	ConfigScoringPolicy       = "scoring-policy"
	ConfigExhaustiveLeafCheck = "exhaustive-leaf-check"
	ConfigMemoMemoryFraction  = "memo-memory-fraction"
	ConfigMovesCacheSize      = "moves-cache-size"
	ConfigConfigFile          = "config-file"
)

const envPrefix = "doubledots"

// Config is layered: explicit flags win over DOUBLEDOTS_* environment
// variables, which win over the config file, which wins over defaults.
type Config struct {
	*viper.Viper
	args []string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("doubledots", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.Int(ConfigColors, 5, "number of colors on a new board (1-5)")
	fs.Int(ConfigWidth, 16, "width of a new board")
	fs.Int(ConfigHeight, 16, "height of a new board")
	fs.Uint64(ConfigSeed, 0, "seed for new boards; 0 picks one at random")
	fs.String(ConfigScoringPolicy, "clobber-bonus", "how matches are scored: size or clobber-bonus")
	fs.Bool(ConfigExhaustiveLeafCheck, true, "re-check every frontier extension before declaring a pair maximal")
	fs.Float64(ConfigMemoMemoryFraction, 0.25, "fraction of system memory the pair search may use; 0 for no limit")
	fs.Int(ConfigMovesCacheSize, 64, "number of positions whose moves are cached")
	fs.String(ConfigConfigFile, "", "YAML config file")
	return fs
}

// DefaultConfig returns a config holding only the defaults.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", f, err)
		}
	}
	return nil
}

// Args returns the positional arguments left after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// Usage describes every flag.
func Usage() string {
	return flagSet().FlagUsages()
}
