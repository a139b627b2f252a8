package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigLogLevel       = "log-level"
	ConfigStrategy       = "strategy"
	ConfigStrategyScript = "strategy-script"
	ConfigPlayers        = "players"
	ConfigStrict         = "strict"
	ConfigRNGSeed        = "rng-seed"
	ConfigDumpState      = "dump-state"
	ConfigFile           = "config-file"
	ConfigEnvFile        = "env-file"
)

// Config wraps a viper instance. Values come, in order of precedence, from
// command-line flags, SUECA_* environment variables (which may be set in a
// .env file), an optional YAML config file, and the defaults below.
type Config struct {
	*viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigStrategy, "random")
	v.SetDefault(ConfigStrategyScript, "")
	v.SetDefault(ConfigPlayers, 4)
	v.SetDefault(ConfigStrict, true)
	v.SetDefault(ConfigRNGSeed, 0)
	v.SetDefault(ConfigDumpState, "")
	v.SetDefault(ConfigFile, "")
	v.SetDefault(ConfigEnvFile, "")
}

// DefaultConfig returns a config holding only the defaults. Useful for tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	setDefaults(c.Viper)
	return c
}

// Load reads flags from args, then the environment, then the config file if
// one was named.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("sueca", pflag.ContinueOnError)
	fs.String(ConfigLogLevel, "info", "log level: debug, info, or disabled")
	fs.String(ConfigStrategy, "random", "which strategy picks the card to play")
	fs.String(ConfigStrategyScript, "", "path to a Lua script defining play(state), for the lua strategy")
	fs.Int(ConfigPlayers, 4, "number of players at the table")
	fs.Bool(ConfigStrict, true, "reject malformed input instead of guessing")
	fs.Int64(ConfigRNGSeed, 0, "seed for the random strategies; 0 picks a random seed")
	fs.String(ConfigDumpState, "", "dump the parsed state to stderr: yaml or json")
	fs.String(ConfigFile, "", "optional YAML config file")
	fs.String(ConfigEnvFile, "", "file of SUECA_* variables to load; defaults to ./.env if present")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	// AutomaticEnv isn't on yet, so the env file's own variable is read here
	envFile := c.GetString(ConfigEnvFile)
	if envFile == "" {
		envFile = os.Getenv("SUECA_ENV_FILE")
	}
	if err := loadDotenv(envFile); err != nil {
		return err
	}
	c.SetEnvPrefix("sueca")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return c.validate()
}

// loadDotenv copies variables from a .env file into the environment. Ones
// already set are left alone. A missing ./.env is fine; a missing named file
// is not.
func loadDotenv(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Args returns the arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) validate() error {
	switch c.GetString(ConfigLogLevel) {
	case "debug", "info", "disabled":
	default:
		return fmt.Errorf("unknown log level %q", c.GetString(ConfigLogLevel))
	}
	switch c.GetString(ConfigDumpState) {
	case "", "yaml", "json":
	default:
		return fmt.Errorf("unknown dump format %q", c.GetString(ConfigDumpState))
	}
	if c.GetInt(ConfigPlayers) < 1 {
		return errors.New("players must be positive")
	}
	return nil
}

// AdjustRelativePaths makes a relative strategy script path relative to
// basepath instead of the working directory, if the file isn't found where
// it is.
func (c *Config) AdjustRelativePaths(basepath string) {
	script := c.GetString(ConfigStrategyScript)
	if script == "" || filepath.IsAbs(script) {
		return
	}
	if _, err := os.Stat(script); err == nil {
		return
	}
	c.Set(ConfigStrategyScript, filepath.Join(basepath, script))
}
