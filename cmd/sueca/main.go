package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/sueca/config"
	"github.com/domino14/sueca/strategy"
	"github.com/domino14/sueca/turnplayer"
)

func newLogger(level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "disabled":
		lvl = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(lvl)
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := strategy.New(cfg.GetString(config.ConfigStrategy), cfg)
	if err != nil {
		return err
	}
	p := turnplayer.NewBaseTurnPlayer(turnplayer.OptionsFromConfig(cfg), s)
	return p.Run(ctx, os.Stdin, os.Stdout)
}

func main() {
	// Stdout is reserved for the card, so everything else goes to stderr.
	log.Logger = newLogger("info")

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("bad-config")
	}
	if ex, err := os.Executable(); err == nil {
		cfg.AdjustRelativePaths(filepath.Dir(ex))
	}

	logger := newLogger(cfg.GetString(config.ConfigLogLevel))
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error().Err(err).Msg("could-not-play")
		stop()
		os.Exit(1)
	}
}
