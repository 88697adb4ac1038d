package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/internal/tokendump"
	"github.com/msto63/rhl/internal/watch"
)

var (
	runTokens bool
	runWatch  bool
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a script",
	Long: `Runs a script file once. The first error aborts the run and rhl
exits with status 1.

With --tokens the token table is printed before the script runs.
With --watch the script is run again each time the file changes; errors
are reported but do not end the command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runWatch {
			return watchScript(cmd, args[0])
		}
		return runScript(cmd, args[0], runTokens)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runTokens, "tokens", false, "print the token table before running")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "re-run the script when it changes")
	rootCmd.AddCommand(runCmd)
}

// runScript executes one file in file mode. "-" reads standard input.
func runScript(cmd *cobra.Command, path string, showTokens bool) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	src, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	in := interpreter.New(interpreterOptions(out))
	tokens, err := in.Tokenize(src)
	if err != nil {
		return err
	}
	if showTokens {
		if err := tokendump.Write(out, tokens, tokendump.Options{Color: isTerminal(out)}); err != nil {
			return rhlerr.Wrap(err, "write token table").WithCode(rhlerr.CodeIO)
		}
		fmt.Fprintln(out)
	}

	res := in.Run(tokens)
	if cfg.Interpreter.Echo(false) {
		for _, a := range res.Assignments() {
			fmt.Fprintln(errOut, a.String())
		}
	}
	logger.Debug("script finished", rhllog.Fields{"file": path, "steps": res.Steps})
	return res.Err()
}

func watchScript(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := watch.New(path, watch.Options{
		Debounce: cfg.Watch.Debounce.Duration,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	rerun := func(context.Context) {
		if err := runScript(cmd, path, runTokens); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	}

	rerun(ctx)
	return w.Run(ctx, rerun)
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		code := rhlerr.CodeIO
		if os.IsNotExist(err) {
			code = rhlerr.CodeNotFound
		}
		return "", rhlerr.Wrap(err, "read "+path).WithCode(code)
	}
	return string(data), nil
}
