package cmd

import (
	"fmt"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/markdown"
	"github.com/zjrosen/stylex/internal/presentation"
)

var (
	describePlain bool
	describeJSON  bool
	describeWidth int
)

var describeCmd = &cobra.Command{
	Use:   "describe LANG",
	Short: "Document a language's properties, keyword lists and styles",
	Long: `Describe the lexer for LANG: the properties it accepts with their defaults,
its keyword list slots and every style it emits.

The description is rendered as markdown unless --plain or --json is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	m, err := env.catalogue.Lookup(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	formatter := presentation.NewFormatter(out)

	switch {
	case describeJSON:
		return formatter.FormatLanguage(presentation.FromModule(m, true))
	case describePlain:
		return formatter.FormatLanguageText(presentation.FromModule(m, true), describeWidth)
	}

	md, err := catalogue.NewDescriber(env.catalogue, cfg.Cache.SessionTTL).Describe(cmd.Context(), m.Name)
	if err != nil {
		return err
	}
	style := ""
	if termenv.NewOutput(out).Profile == termenv.Ascii {
		style = "notty"
	}
	renderer, err := markdown.New(describeWidth, style)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering description: %w", err)
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func init() {
	describeCmd.Flags().BoolVar(&describePlain, "plain", false, "plain text without markdown styling")
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "output as JSON")
	describeCmd.Flags().IntVarP(&describeWidth, "width", "w", 100, "wrap descriptions at this width")
	rootCmd.AddCommand(describeCmd)
}
