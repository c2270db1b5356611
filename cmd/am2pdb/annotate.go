package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/spf13/cobra"

	"github.com/paulynamagana/pdb-alphamissense-annotator/afdb"
	"github.com/paulynamagana/pdb-alphamissense-annotator/am"
	"github.com/paulynamagana/pdb-alphamissense-annotator/annotate"
	"github.com/paulynamagana/pdb-alphamissense-annotator/fasta"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
	"github.com/paulynamagana/pdb-alphamissense-annotator/pdbx"
)

var (
	flagStructure string
	flagAccession string
	flagChains    string
	flagOut       string
	flagFasta     string
	flagScores    string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Map AlphaMissense scores onto the chains of a structure",
	Long: `Annotate aligns each requested chain of a structure against the
canonical reference sequence of a UniProt accession and writes a copy of
the structure whose B-factor column carries per-residue mean pathogenicity
scores. Residues that cannot carry a score receive -1.00.

The reference sequence and scores are fetched from the AlphaFold database
unless --fasta and --scores point at local files. PDBx/mmCIF input is
understood, but the annotated structure can only be written for PDB input;
mmCIF input still produces the alignment report.`,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVar(&flagStructure, "pdb", "",
		"structure file to annotate (.pdb, .ent.gz or .cif)")
	annotateCmd.Flags().StringVar(&flagAccession, "accession", "",
		"UniProt accession providing reference sequence and scores")
	annotateCmd.Flags().StringVar(&flagChains, "chains", "",
		"comma-separated chain identifiers (default: all chains)")
	annotateCmd.Flags().StringVar(&flagOut, "out", ".",
		"output directory")
	annotateCmd.Flags().StringVar(&flagFasta, "fasta", "",
		"local reference sequence instead of the AlphaFold database")
	annotateCmd.Flags().StringVar(&flagScores, "scores", "",
		"local AlphaMissense CSV instead of the AlphaFold database")
	annotateCmd.MarkFlagRequired("pdb")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	entry, err := readStructure(flagStructure)
	if err != nil {
		return err
	}
	slog.Info("structure loaded",
		"path", flagStructure, "chains", len(entry.Chains))

	ref, variants, err := referenceAndScores(cmd)
	if err != nil {
		return err
	}
	table, err := am.NewScoreTable(len(ref), variants)
	if err != nil {
		return err
	}
	slog.Info("score table built", "positions", table.RefLen())

	chains := requestedChains(entry)
	results := annotate.Batch(entry, chains, ref, table)
	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			slog.Warn("chain skipped", "chain", res.Chain, "err", res.Err)
			continue
		}
		identity := "undefined"
		if id, ok := res.Coverage.Identity(); ok {
			identity = fmt.Sprintf("%.1f%%", id*100)
		}
		slog.Info("chain annotated", "chain", res.Chain,
			"residues", res.Coverage.Total, "scored", res.Coverage.Scored,
			"sentinel", res.Coverage.Sentinel, "identity", identity)
	}
	if failures == len(results) {
		return fmt.Errorf("no chain could be annotated")
	}

	if err := os.MkdirAll(flagOut, 0755); err != nil {
		return err
	}
	stem := fileStem(flagStructure)

	reportPath := filepath.Join(flagOut, "report_"+stem+".txt")
	if err := writeReportFile(reportPath, ref, results); err != nil {
		return err
	}
	slog.Info("alignment report written", "path", reportPath)

	if isCIF(flagStructure) {
		slog.Warn("mmCIF input: skipping annotated structure output")
		return nil
	}
	outPath := filepath.Join(flagOut, stem+"_AM_modified.pdb")
	if err := rewriteStructure(flagStructure, outPath, results); err != nil {
		return err
	}
	slog.Info("annotated structure written", "path", outPath)
	return nil
}

// referenceAndScores resolves the reference sequence and variant records,
// from local files when given, from the AlphaFold database otherwise.
func referenceAndScores(cmd *cobra.Command) ([]seq.Residue, []am.Variant, error) {
	var ref []seq.Residue
	var variants []am.Variant

	var pred *afdb.Prediction
	fetch := func() error {
		if pred != nil {
			return nil
		}
		if flagAccession == "" {
			return fmt.Errorf("--accession is required unless both " +
				"--fasta and --scores are given")
		}
		client := afdb.NewClient()
		p, err := client.Prediction(cmd.Context(), flagAccession)
		if err != nil {
			return err
		}
		slog.Info("prediction fetched", "accession", p.UniprotAccession,
			"description", p.UniprotDescription)
		pred = p
		return nil
	}

	if flagFasta != "" {
		f, err := os.Open(flagFasta)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		s, err := fasta.NewReader(f).Read()
		if err != nil {
			return nil, nil, err
		}
		ref = s.Residues
	} else {
		if err := fetch(); err != nil {
			return nil, nil, err
		}
		ref = []seq.Residue(pred.Sequence)
	}

	if flagScores != "" {
		f, err := os.Open(flagScores)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		variants, err = am.ReadVariants(f)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if err := fetch(); err != nil {
			return nil, nil, err
		}
		client := afdb.NewClient()
		var err error
		variants, err = client.Variants(cmd.Context(), pred)
		if err != nil {
			return nil, nil, err
		}
	}
	return ref, variants, nil
}

func requestedChains(entry *pdb.Entry) []string {
	if flagChains == "" {
		chains := make([]string, len(entry.Chains))
		for i, chain := range entry.Chains {
			chains[i] = chain.Ident
		}
		return chains
	}
	var chains []string
	for _, ident := range strings.Split(flagChains, ",") {
		if ident = strings.TrimSpace(ident); ident != "" {
			chains = append(chains, ident)
		}
	}
	return chains
}

func readStructure(path string) (*pdb.Entry, error) {
	if !isCIF(path) {
		return pdb.ReadPDB(path)
	}
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	entry, err := pdbx.Read(r)
	if err != nil {
		return nil, err
	}
	entry.Path = path
	return entry, nil
}

func rewriteStructure(inPath, outPath string, results []annotate.Result) error {
	in, err := openMaybeGzip(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	scores := annotate.ChainScores(results)
	if err := pdb.RewriteBFactors(in, out, scores, annotate.Sentinel); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeReportFile(path string, ref []seq.Residue, results []annotate.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := annotate.WriteReport(f, ref, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".gz" {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipFile{gz, f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Reader.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func isCIF(path string) bool {
	return strings.HasSuffix(path, ".cif") || strings.HasSuffix(path, ".cif.gz")
}

// fileStem strips the directory and the structure-file extensions,
// including doubled ones like ".ent.gz".
func fileStem(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".pdb", ".ent", ".cif"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
