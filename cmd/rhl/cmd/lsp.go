package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/rhl/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server on stdin/stdout",
	Long: `Runs a language server speaking JSON-RPC over stdin and stdout.
Open documents are run on every change and the first error is
published as a diagnostic. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := lsp.OptionsFromConfig(cfg)
		opts.Logger = logger
		return lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), opts).Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
