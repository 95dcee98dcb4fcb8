package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigNumSquares          = "num-squares"
	ConfigStartingCoins       = "starting-coins"
	ConfigThreads             = "threads"
	ConfigSeed                = "seed"
	ConfigCacheMemoryFraction = "cache-memory-fraction"
	ConfigEvalLogFile         = "eval-log-file"
	ConfigCPUProfile          = "cpu-profile"
	ConfigMemProfile          = "mem-profile"
	ConfigPlayers             = "players"
)

type Config struct {
	viper.Viper
	args []string
}

func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()

	fs := pflag.NewFlagSet("camelup", pflag.ContinueOnError)
	// Everything after the first non-flag argument is a shell command.
	fs.SetInterspersed(false)

	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigNumSquares, 16, "number of squares on the track")
	fs.Int(ConfigStartingCoins, 3, "coins each player starts with")
	fs.Int(ConfigThreads, 0, "worker threads for evaluations (0 means one per CPU)")
	fs.String(ConfigSeed, "", "seed for the dice; empty means truly random")
	fs.Float64(ConfigCacheMemoryFraction, 0.05, "fraction of system memory the evaluation cache may use")
	fs.String(ConfigEvalLogFile, "", "append every evaluation to this file as YAML")
	fs.String(ConfigCPUProfile, "", "file for CPU profiling output")
	fs.String(ConfigMemProfile, "", "file for memory profiling output")
	fs.StringSlice(ConfigPlayers, []string{"player1", "player2"}, "comma-separated player names")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("CAMELUP")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c.BindPFlags(fs)
}

// Args returns the positional arguments left over after the flags.
func (c *Config) Args() []string {
	return c.args
}

// Players returns the player names. Names may be separated by commas
// whether they came from a flag or from CAMELUP_PLAYERS.
func (c *Config) Players() []string {
	var names []string
	for _, s := range c.GetStringSlice(ConfigPlayers) {
		for _, name := range strings.Split(s, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// SanitizedSettings returns the settings in a form that is fine to log.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if s, ok := settings[ConfigSeed].(string); ok && s != "" {
		settings[ConfigSeed] = "<set>"
	}
	return settings
}

// DefaultConfig is a loaded configuration with every default and nothing
// from the command line.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}
