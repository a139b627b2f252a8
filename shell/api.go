package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/sueca/config"
	"github.com/domino14/sueca/strategy"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// settings the `set` command knows about, in display order.
var settingNames = []string{"players", "strict", "dump", "strategy", "script", "seed"}

func (sc *ShellController) showSetting(name string) (string, error) {
	switch name {
	case "players":
		return strconv.Itoa(sc.options.Players), nil
	case "strict":
		return strconv.FormatBool(sc.options.Strict), nil
	case "dump":
		if sc.options.DumpFormat == "" {
			return "off", nil
		}
		return sc.options.DumpFormat, nil
	case "strategy":
		return sc.strategyName, nil
	case "script":
		return sc.config.GetString(config.ConfigStrategyScript), nil
	case "seed":
		return strconv.FormatInt(sc.config.GetInt64(config.ConfigRNGSeed), 10), nil
	}
	return "", fmt.Errorf("unknown setting %v; valid settings are %v", name, settingNames)
}

func (sc *ShellController) settingsDisplayText() string {
	var sb strings.Builder
	for _, name := range settingNames {
		val, _ := sc.showSetting(name)
		fmt.Fprintf(&sb, "%-10s%s\n", name, val)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		val, err := sc.showSetting(opt)
		if err != nil {
			return nil, err
		}
		return msg(val), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	var err error
	switch opt {
	case "players":
		err = sc.options.SetPlayers(value)
	case "strict":
		err = sc.options.SetStrict(value)
	case "dump":
		err = sc.options.SetDumpFormat(value)
	case "strategy":
		err = sc.useStrategy(value)
	case "script":
		sc.config.Set(config.ConfigStrategyScript, value)
		if sc.strategyName == strategy.NameLua {
			err = sc.useStrategy(strategy.NameLua)
		}
	case "seed":
		var seed int64
		seed, err = strconv.ParseInt(value, 10, 64)
		if err == nil {
			sc.config.Set(config.ConfigRNGSeed, seed)
			err = sc.useStrategy(sc.strategyName)
		}
	default:
		_, err = sc.showSetting(opt)
	}
	if err != nil {
		return nil, err
	}
	val, _ := sc.showSetting(opt)
	return msg("set " + opt + " to " + val), nil
}

func (sc *ShellController) useStrategy(name string) error {
	s, err := strategy.New(name, sc.config)
	if err != nil {
		return err
	}
	sc.player.SetStrategy(s)
	sc.strategyName = name
	return nil
}

func (sc *ShellController) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sc.player.SetDumpWriter(sc.out)
	if err := sc.player.LoadState(f); err != nil {
		return err
	}
	sc.lastLoaded = path
	log.Debug().Str("path", path).Msg("loaded-state")
	return nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	if err := sc.loadFile(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg(sc.player.State().ToDisplayText()), nil
}

func (sc *ShellController) reload(cmd *shellcmd) (*Response, error) {
	if sc.lastLoaded == "" {
		return nil, errNoStateLoaded
	}
	if err := sc.loadFile(sc.lastLoaded); err != nil {
		return nil, err
	}
	return msg(sc.player.State().ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	gs := sc.player.State()
	if gs == nil {
		return nil, errNoStateLoaded
	}
	format := "text"
	if len(cmd.args) > 0 {
		format = cmd.args[0]
	}
	switch format {
	case "text":
		return msg(gs.ToDisplayText()), nil
	case "raw":
		return msg(strings.TrimSuffix(gs.String(), "\n")), nil
	}
	var sb strings.Builder
	if err := gs.Dump(&sb, format); err != nil {
		return nil, err
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) play(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.player.State() == nil {
		return nil, errNoStateLoaded
	}
	times, err := cmd.options.IntDefault("n", 1)
	if err != nil {
		return nil, err
	}
	if times < 1 {
		return nil, fmt.Errorf("-n must be at least 1, got %d", times)
	}
	if len(cmd.args) > 0 && cmd.args[0] != sc.strategyName {
		// put the current strategy back as is, so a seeded one keeps its
		// place in the random stream
		prevName, prev := sc.strategyName, sc.player.Strategy()
		if err := sc.useStrategy(cmd.args[0]); err != nil {
			return nil, err
		}
		defer func() {
			sc.player.SetStrategy(prev)
			sc.strategyName = prevName
		}()
	}

	plays := make([]string, 0, times)
	for i := 0; i < times; i++ {
		c, err := sc.player.PlayTurn(ctx)
		if err != nil {
			return nil, err
		}
		plays = append(plays, c.String())
	}
	if times == 1 {
		return msg(plays[0]), nil
	}
	// tally repeated plays, most frequent first
	counts := lo.CountValues(plays)
	codes := lo.Keys(counts)
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	var sb strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&sb, "%-4s%d\n", code, counts[code])
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) strategies(cmd *shellcmd) (*Response, error) {
	lines := lo.Map(strategy.Names(), func(name string, _ int) string {
		if name == sc.strategyName {
			return "* " + name
		}
		return "  " + name
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) hash(cmd *shellcmd) (*Response, error) {
	gs := sc.player.State()
	if gs == nil {
		return nil, errNoStateLoaded
	}
	return msg(fmt.Sprintf("%016x", gs.Hash())), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb, "standard")
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}
