package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paulynamagana/pdb-alphamissense-annotator/afdb"
	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
	"github.com/paulynamagana/pdb-alphamissense-annotator/annotate"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

var (
	flagColorAccessions string
	flagColorOut        string
)

var colorCmd = &cobra.Command{
	Use:   "color",
	Short: "Write AlphaFold models with AlphaMissense scores as B-factors",
	Long: `Color downloads the AlphaFold model of each given accession and
writes a copy whose B-factor column holds the per-residue mean
pathogenicity score. Model numbering matches the reference sequence, so
scores are placed by residue number without alignment. Positions without
scores receive -1.00.

Accessions that fail (no model, no AlphaMissense data) are skipped; the
command fails only when nothing could be written.`,
	RunE: runColor,
}

func init() {
	colorCmd.Flags().StringVar(&flagColorAccessions, "accession", "",
		"comma-separated UniProt accessions")
	colorCmd.Flags().StringVar(&flagColorOut, "out", ".",
		"output directory")
	colorCmd.MarkFlagRequired("accession")
}

func runColor(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(flagColorOut, 0755); err != nil {
		return err
	}

	client := afdb.NewClient()
	written := 0
	for _, accession := range strings.Split(flagColorAccessions, ",") {
		accession = strings.TrimSpace(accession)
		if accession == "" {
			continue
		}
		if err := colorOne(cmd, client, accession); err != nil {
			slog.Warn("accession skipped", "accession", accession, "err", err)
			continue
		}
		written++
	}
	if written == 0 {
		return fmt.Errorf("no model could be written")
	}
	return nil
}

func colorOne(cmd *cobra.Command, client *afdb.Client, accession string) error {
	pred, err := client.Prediction(cmd.Context(), accession)
	if err != nil {
		return err
	}
	variants, err := client.Variants(cmd.Context(), pred)
	if err != nil {
		return err
	}
	table, err := am.NewScoreTable(len(pred.Sequence), variants)
	if err != nil {
		return err
	}

	// AlphaFold models carry a single chain A whose numbering is the
	// reference numbering, so keys are built directly from positions.
	assigned := make(map[pdb.ResidueKey]float64, table.RefLen())
	for pos := 1; pos <= table.RefLen(); pos++ {
		if score, ok := table.Aggregate(pos); ok {
			assigned[pdb.ResidueKey{Chain: "A", SeqNum: pos}] = score
		}
	}

	model, err := client.ModelPDB(cmd.Context(), pred)
	if err != nil {
		return err
	}
	defer model.Close()

	outPath := filepath.Join(flagColorOut,
		strings.ToUpper(accession)+"_AM_scores.pdb")
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	scores := pdb.ChainScores{"A": assigned}
	if err := pdb.RewriteBFactors(model, out, scores, annotate.Sentinel); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Info("model written", "accession", accession, "path", outPath)
	return nil
}
