// Command am2pdb carries AlphaMissense pathogenicity scores onto
// experimentally determined protein structures.
//
// The "annotate" subcommand aligns each requested chain of a structure to
// the UniProt reference sequence and writes a copy of the structure whose
// B-factor column holds per-residue mean pathogenicity (or -1.00 where no
// score could be assigned), together with a per-chain alignment report.
//
// The "color" subcommand writes AlphaFold models with their own
// AlphaMissense scores in the B-factor column; model numbering matches the
// reference, so no alignment is needed there.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:           "am2pdb",
	Short:         "Annotate protein structures with AlphaMissense scores",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(colorCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("am2pdb failed", "err", err)
		os.Exit(1)
	}
}
