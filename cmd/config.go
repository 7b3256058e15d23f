package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/config"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/paths"
)

var (
	configForce    bool
	configUser     bool
	configFormat   string
	configKeywords []string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the stylex configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write the default configuration to .stylex/config.yaml, to the file given
with --config, or with --user to ~/.config/stylex/config.yaml.`,
	Args: cobra.NoArgs,
	// The file may not exist or parse yet.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
		return err
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and flags are
merged, as YAML or TOML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := config.Export(cfg, configFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set LANG [KEY=VALUE...]",
	Short: "Set lexer properties and keyword lists for a language",
	Long: `Update languages.LANG in the config file. Other sections and their
comments are kept.

Examples:
  stylex config set cpp fold.comment=1 fold.preprocessor=1
  stylex config set lua --keywords "1=assert error pcall"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configUser, "user", false, "write the user config instead of the project one")
	configExportCmd.Flags().StringVar(&configFormat, "format", config.FormatYAML, "yaml or toml")
	configSetCmd.Flags().StringArrayVarP(&configKeywords, "keywords", "k", nil,
		"replace a keyword list as SLOT=WORDS, repeatable")

	configCmd.AddCommand(configInitCmd, configPathCmd, configExportCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := paths.LocalConfigFile
	switch {
	case configUser:
		path = paths.UserConfigFile()
		if path == "" {
			return errors.New("cannot locate the home directory")
		}
	case cfgFile != "":
		path = cfgFile
	}

	if existing, err := os.ReadFile(path); err == nil && !configForce { //nolint:gosec // G304: config path
		// A file this run created from the template counts as initialized.
		if string(existing) != config.DefaultConfigTemplate() {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	} else if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	m, err := env.catalogue.Lookup(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 && len(configKeywords) == 0 {
		return cmd.Help()
	}

	lang := cfg.Language(m.Name)
	for _, arg := range args[1:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return fmt.Errorf("%q: want KEY=VALUE", arg)
		}
		lang = lang.WithProperty(k, v)
	}
	for _, kw := range configKeywords {
		slotText, words, ok := strings.Cut(kw, "=")
		slot, err := strconv.Atoi(slotText)
		if !ok || err != nil {
			return fmt.Errorf("--keywords %q: want SLOT=WORDS", kw)
		}
		lang = lang.WithKeywords(slot, words)
	}

	if err := config.ValidateLanguages(map[string]config.LanguageConfig{m.Name: lang}, env.catalogue); err != nil {
		return err
	}
	if err := config.SaveLanguage(cfgPath, m.Name, lang); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved language settings", "language", m.Name, "path", cfgPath)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated languages.%s in %s\n", m.Name, cfgPath)
	return err
}
