package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind     string
	port     int
	guesses  int
	stars    int
	catalog  string
	tick     time.Duration
	logLevel string
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.guesses < 0 {
		return fmt.Errorf("guesses must not be negative: %d", c.guesses)
	}
	if c.stars < -1 {
		return fmt.Errorf("stars must be -1 (catalog default) or higher: %d", c.stars)
	}
	if c.tick <= 0 {
		return fmt.Errorf("tick must be positive: %s", c.tick)
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.bind, c.port)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("STARHEART")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "starheart",
		Short:         "Find the heart hidden in a field of orbiting celestial bodies.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: STARHEART_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: STARHEART_PORT)")
	fs.IntVarP(&cfg.guesses, "guesses", "g", 0, "wrong guesses allowed per round, 0 uses the catalog value (env: STARHEART_GUESSES)")
	fs.IntVar(&cfg.stars, "stars", -1, "decorative stars per round, -1 uses the catalog value (env: STARHEART_STARS)")
	fs.StringVar(&cfg.catalog, "catalog", "", "path to a catalog yaml, empty uses the embedded default (env: STARHEART_CATALOG)")
	fs.DurationVar(&cfg.tick, "tick", 50*time.Millisecond, "watch-stream frame interval (env: STARHEART_TICK)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error (env: STARHEART_LOG_LEVEL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("starheart v{{.Version}}\n")

	return cmd
}
