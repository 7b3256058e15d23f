package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/catalogue"
	"github.com/zjrosen/stylex/internal/config"
	"github.com/zjrosen/stylex/internal/log"
	"github.com/zjrosen/stylex/internal/session"
)

// docFlags are the flags of commands that open a file.
type docFlags struct {
	lang  string
	props []string
}

func (f *docFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "",
		"language (default: detected from the file name or #! line)")
	cmd.Flags().StringArrayVarP(&f.props, "prop", "p", nil,
		"lexer property as key=value, repeatable")
}

// readSource reads path, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied source file
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// openFile lexes path in a new session. The language comes from --lang or
// detection, the settings from the config with --prop on top. Folding is
// switched on unless configured otherwise.
func openFile(ctx context.Context, cmd *cobra.Command, path string, f docFlags) (*session.Session, error) {
	text, err := readSource(cmd, path)
	if err != nil {
		return nil, err
	}

	var module catalogue.Module
	if f.lang != "" {
		module, err = env.catalogue.Lookup(f.lang)
	} else {
		firstLine, _, _ := strings.Cut(text, "\n")
		module, err = env.catalogue.Detect(path, firstLine)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (use --lang or 'stylex languages')", err)
	}

	known := map[string]bool{}
	for _, p := range module.Properties() {
		known[p.Name] = true
	}
	settings := cfg.Settings(module.Name)
	if _, ok := settings.Properties["fold"]; !ok && known["fold"] {
		settings.Properties["fold"] = "1"
	}
	for _, p := range f.props {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--prop %q: want key=value", p)
		}
		if !known[k] {
			return nil, fmt.Errorf("--prop %q: %w for %s", k, config.ErrUnknownProperty, module.Name)
		}
		settings.Properties[k] = v
	}

	log.Debug(log.CatCLI, "Opening file", "path", path, "language", module.Name, "bytes", len(text))
	return env.manager.Open(ctx, module.Name, text, settings)
}
