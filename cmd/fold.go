package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/stylex/internal/presentation"
	"github.com/zjrosen/stylex/internal/render"
)

var (
	foldFlags docFlags
	foldJSON  bool
)

var foldCmd = &cobra.Command{
	Use:   "fold FILE",
	Short: "Print the fold level of every line",
	Long: `Lex and fold FILE, then print one row per line: the line number, the fold
depth, H for a fold header, W for a blank line, and the next line's level
when the folder packs it.`,
	Args: cobra.ExactArgs(1),
	RunE: runFold,
}

func runFold(cmd *cobra.Command, args []string) error {
	s, err := openFile(cmd.Context(), cmd, args[0], foldFlags)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}

	lines := render.Folds(snap.Levels)
	folds := make([]presentation.FoldDTO, len(lines))
	for i, l := range lines {
		folds[i] = presentation.FromFoldLine(l)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if foldJSON {
		return formatter.FormatFolds(folds)
	}
	return formatter.FormatFoldsText(folds)
}

func init() {
	foldFlags.register(foldCmd)
	foldCmd.Flags().BoolVar(&foldJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(foldCmd)
}
