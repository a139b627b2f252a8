package turnplayer

import (
	"fmt"
	"strconv"

	"github.com/domino14/sueca/config"
	"github.com/domino14/sueca/gamestate"
)

// Options controls how a turn player reads its input.
type Options struct {
	Players    int
	Strict     bool
	DumpFormat string
}

// OptionsFromConfig fills in every option from cfg.
func OptionsFromConfig(cfg *config.Config) *Options {
	return &Options{
		Players:    cfg.GetInt(config.ConfigPlayers),
		Strict:     cfg.GetBool(config.ConfigStrict),
		DumpFormat: cfg.GetString(config.ConfigDumpState),
	}
}

func (opts *Options) SetPlayers(n string) error {
	val, err := strconv.Atoi(n)
	if err != nil {
		return fmt.Errorf("%v is not a number of players", n)
	}
	if val < 1 {
		return fmt.Errorf("need at least one player, got %v", val)
	}
	opts.Players = val
	return nil
}

func (opts *Options) SetStrict(s string) error {
	val, err := ParseSwitch(s)
	if err != nil {
		return err
	}
	opts.Strict = val
	return nil
}

func (opts *Options) SetDumpFormat(name string) error {
	switch name {
	case "", "off", "none":
		opts.DumpFormat = ""
	case gamestate.DumpYAML, gamestate.DumpJSON:
		opts.DumpFormat = name
	default:
		return fmt.Errorf("%v is not a supported dump format", name)
	}
	return nil
}

func (opts *Options) parseOptions() []gamestate.ParseOption {
	popts := []gamestate.ParseOption{gamestate.WithPlayers(opts.Players)}
	if !opts.Strict {
		popts = append(popts, gamestate.Lenient())
	}
	return popts
}
