package cmd

import (
	"github.com/spf13/cobra"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/internal/tokendump"
)

var (
	tokensPositions bool
	tokensColor     string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <script|->",
	Short: "Print the token table of a script",
	Long: `Tokenizes a script without running it and prints one row per token:
index, kind, value and value type. The type column is colored on a
terminal; each type name always gets the same color.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		tokens, err := interpreter.New(interpreterOptions(nil)).Tokenize(src)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var color bool
		switch tokensColor {
		case "auto":
			color = isTerminal(out)
		case "always":
			color = true
		case "never":
		default:
			return rhlerr.New("invalid --color value: " + tokensColor).WithCode(rhlerr.CodeInvalidInput)
		}
		return tokendump.Write(out, tokens, tokendump.Options{Color: color, Positions: tokensPositions})
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensPositions, "positions", false, "add a line:col column")
	tokensCmd.Flags().StringVar(&tokensColor, "color", "auto", "color the type column: auto, always or never")
	rootCmd.AddCommand(tokensCmd)
}
