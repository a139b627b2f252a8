package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/sueca/config"
	"github.com/domino14/sueca/strategy"
	"github.com/domino14/sueca/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoStateLoaded     = errors.New("please load a game state first with the `load` command")
	errQuit              = errors.New("sending quit signal")
)

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config   *config.Config
	execPath string

	options      *turnplayer.Options
	player       *turnplayer.BaseTurnPlayer
	strategyName string
	lastLoaded   string
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	opts := turnplayer.OptionsFromConfig(cfg)
	name := cfg.GetString(config.ConfigStrategy)
	s, err := strategy.New(name, cfg)
	if err != nil {
		log.Err(err).Str("strategy", name).Msg("falling back to unimplemented strategy")
		name = strategy.NameNone
		s = strategy.Unimplemented{}
	}
	return &ShellController{
		out:          os.Stdout,
		config:       cfg,
		execPath:     execPath,
		options:      opts,
		player:       turnplayer.NewBaseTurnPlayer(opts, s),
		strategyName: name,
	}
}

// SetOutput redirects command output, which is stdout for commands run
// with Execute. The interactive loop writes through readline instead.
func (sc *ShellController) SetOutput(w io.Writer) {
	sc.out = w
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			opt := fields[idx][1:]
			options[opt] = append(options[opt], fields[idx+1])
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "load":
		return sc.load(cmd)
	case "reload":
		return sc.reload(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "play":
		return sc.play(ctx, cmd)
	case "strategies":
		return sc.strategies(cmd)
	case "set":
		return sc.set(cmd)
	case "hash":
		return sc.hash(cmd)
	case "script":
		return sc.script(ctx, cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, errors.New("unrecognized command: " + cmd.cmd)
	}
}

// Execute runs a single command line, as if typed at the prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	sc.executeLine(context.Background(), sig, line)
}

func (sc *ShellController) executeLine(ctx context.Context, sig chan os.Signal, line string) error {
	resp, err := sc.standardModeSwitch(ctx, line, sig)
	if err == errQuit {
		return err
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32msueca>\033[0m ",
		HistoryFile:     "/tmp/sueca-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Err(err).Msg("could not start readline")
		sig <- syscall.SIGINT
		return
	}
	sc.l = l
	sc.out = l.Stderr()
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := sc.executeLine(context.Background(), sig, line); err != nil {
			log.Debug().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up")
}
