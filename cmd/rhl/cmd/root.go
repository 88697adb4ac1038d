package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/pkg/core/config"
	"github.com/msto63/rhl/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	// set by the root PersistentPreRunE
	cfg    *config.Config
	logger *rhllog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rhl [script]",
	Short: "RHL - a small scripting language",
	Long: `rhl runs RHL scripts and provides an interactive prompt.

Without arguments an interactive session is started. With a script
path the script is run once; the first error aborts it.

Commands:
  run      - run a script, optionally re-running it on change
  repl     - interactive session (line editor or full-screen console)
  tokens   - print the token table of a script
  lsp      - language server on stdin/stdout
  version  - print version information`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runScript(cmd, args[0], false)
		}
		return runREPL(cmd, cfg.REPL.TUI)
	},
}

// Execute runs the command tree and prints a failing command's error
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./rhl.toml, ~/.config/rhl/rhl.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, text, console or logfmt")
}

// setup loads the configuration and builds the process logger
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if logFormat != "" {
		c.General.LogFormat = logFormat
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c
	logger = logging.FromConfig(cfg, verbose, cmd.ErrOrStderr())
	rhllog.SetDefault(logger)

	logger.Debug("configuration loaded", rhllog.Fields{
		"command": cmd.Name(),
		"source":  cfg.Source,
	})
	return nil
}

// interpreterOptions builds interpreter options writing program output to out
func interpreterOptions(out io.Writer) interpreter.Options {
	opts := interpreter.OptionsFromConfig(cfg)
	opts.Output = out
	opts.Logger = logger
	return opts
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
