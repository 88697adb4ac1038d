package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/internal/repl"
	"github.com/msto63/rhl/internal/tui/console"
)

var replTUI bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Starts an interactive session. All inputs share one set of variables.
An input that stops inside a statement or block is continued on the
next line. Type "exit" to leave.

Keys in the full-screen console (--tui):
  Enter     - submit the line
  Up/Down   - history
  Ctrl+L    - clear the transcript
  Ctrl+C    - quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd, replTUI || cfg.REPL.TUI)
	},
}

func init() {
	replCmd.Flags().BoolVar(&replTUI, "tui", false, "use the full-screen console")
	rootCmd.AddCommand(replCmd)
}

func sessionOptions() repl.Options {
	opts := repl.DefaultOptions()
	opts.Prompt = cfg.REPL.Prompt
	opts.ContinuationPrompt = cfg.REPL.ContinuationPrompt
	opts.Recover = cfg.REPL.Recover
	opts.EchoAssignments = cfg.Interpreter.Echo(true)
	opts.Logger = logger
	return opts
}

func runREPL(cmd *cobra.Command, tui bool) error {
	iopts := interpreterOptions(cmd.OutOrStdout())
	iopts.Interactive = true

	if tui {
		return console.Run(console.New(sessionOptions(), iopts))
	}

	sopts := sessionOptions()
	sopts.Output = cmd.OutOrStdout()
	sopts.Interpreter = interpreter.New(iopts)

	r := repl.NewLineReader(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.REPL.HistoryFile)
	defer r.Close()
	return repl.NewSession(sopts).Run(cmd.Context(), r)
}
