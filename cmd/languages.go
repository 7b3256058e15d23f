package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/presentation"
)

var (
	languagesJSON bool
	languagesExt  string
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages stylex can lex",
	Long: `List every registered language with its file extensions.

Use --ext to show the language files with that extension are lexed as,
including mappings from the extensions section of the config.

Examples:
  # All languages
  stylex languages

  # Which language handles .h files
  stylex languages --ext .h

  # Parse specific fields with jq
  stylex languages --json | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		modules := env.catalogue.Modules()
		if cmd.Flags().Changed("ext") {
			m, err := languageForExtension(env.catalogue, languagesExt)
			if err != nil {
				return err
			}
			modules = []catalogue.Module{m}
		}

		dtos := make([]presentation.LanguageDTO, len(modules))
		for i, m := range modules {
			dtos[i] = presentation.FromModule(m, false)
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		if languagesJSON {
			return formatter.FormatLanguages(dtos)
		}
		return formatter.FormatLanguagesText(dtos)
	},
}

func init() {
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "output as JSON")
	languagesCmd.Flags().StringVarP(&languagesExt, "ext", "e", "", "only languages for this extension (e.g., .lua)")
	rootCmd.AddCommand(languagesCmd)
}

// languageForExtension returns the module files ending in ext are lexed as.
func languageForExtension(c *catalogue.Catalogue, ext string) (catalogue.Module, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return c.Detect("file"+ext, "")
}
