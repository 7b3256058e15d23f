package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/presentation"
	"github.com/zjrosen/stylex/internal/render"
)

var (
	lexFlags  docFlags
	lexTokens bool
	lexJSON   bool
	lexMargin bool
)

var lexCmd = &cobra.Command{
	Use:   "lex FILE",
	Short: "Print a file with syntax styling",
	Long: `Lex FILE and print it with each style coloured by the theme.

FILE may be "-" to read standard input; --lang is then required unless the
first line is a #! line.

Examples:
  # Coloured output with line numbers and fold markers
  stylex lex --margin main.lua

  # Token stream, one token per line
  stylex lex --tokens src/parser.cpp

  # Tokens as JSON with a property override
  stylex lex --json --prop lexer.cpp.track.preprocessor=0 src/parser.cpp`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func runLex(cmd *cobra.Command, args []string) error {
	s, err := openFile(cmd.Context(), cmd, args[0], lexFlags)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	doc := render.NewDocument(snap)
	out := cmd.OutOrStdout()

	if lexTokens || lexJSON {
		tokens := render.Tokens(doc)
		dtos := make([]presentation.TokenDTO, len(tokens))
		for i, t := range tokens {
			dtos[i] = presentation.FromToken(t)
		}
		formatter := presentation.NewFormatter(out)
		if lexJSON {
			return formatter.FormatTokens(dtos)
		}
		return formatter.FormatTokensText(dtos)
	}

	theme := render.NewTheme(out, cfg.Theme)
	return theme.Render(out, doc, render.Options{Margin: lexMargin})
}

func init() {
	lexFlags.register(lexCmd)
	lexCmd.Flags().BoolVarP(&lexTokens, "tokens", "t", false, "list tokens instead of styled text")
	lexCmd.Flags().BoolVar(&lexJSON, "json", false, "list tokens as JSON")
	lexCmd.Flags().BoolVarP(&lexMargin, "margin", "m", false, "show line numbers and fold markers")
	rootCmd.AddCommand(lexCmd)
}
