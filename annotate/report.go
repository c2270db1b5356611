package annotate

import (
	"fmt"
	"io"

	"github.com/TuftsBCB/seq"
)

// WriteReport renders a plain text report of a batch: per chain, the
// coverage numbers and the gapped alignment against the reference. The
// report describes the residue-level correspondence used to carry scores
// onto the structure, so that surprising assignments can be audited.
func WriteReport(w io.Writer, ref []seq.Residue, results []Result) error {
	_, err := fmt.Fprintf(w, "=== AlphaMissense alignment report ===\n\n"+
		"Each chain below was aligned to the canonical reference sequence.\n"+
		"Scores transfer only across aligned, modeled, canonical residues;\n"+
		"everything else carries the sentinel %.2f.\n", Sentinel)
	if err != nil {
		return err
	}

	for _, res := range results {
		if _, err := fmt.Fprintf(w, "\n=== Chain %s ===\n", res.Chain); err != nil {
			return err
		}
		if res.Err != nil {
			if _, err := fmt.Fprintf(w, "skipped: %s\n", res.Err); err != nil {
				return err
			}
			continue
		}

		cov := res.Coverage
		identity := "undefined"
		if id, ok := cov.Identity(); ok {
			identity = fmt.Sprintf("%.1f%%", id*100)
		}
		_, err := fmt.Fprintf(w,
			"residues %d, aligned %d, scored %d, sentinel %d, identity %s\n\n",
			cov.Total, cov.Aligned, cov.Scored, cov.Sentinel, identity)
		if err != nil {
			return err
		}

		refLine, obsLine := gappedStrings(ref, res)
		if err := writeWrapped(w, refLine, obsLine); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "\n=== End of report ===\n")
	return err
}

// gappedStrings renders both sides of a correspondence as aligned symbol
// strings. Unmodeled residues are lower case, gaps are '-'.
func gappedStrings(ref []seq.Residue, res Result) (string, string) {
	refLine := make([]byte, len(res.Pairs))
	obsLine := make([]byte, len(res.Pairs))
	for i, p := range res.Pairs {
		switch {
		case p.RefPos == 0:
			refLine[i] = '-'
		default:
			refLine[i] = byte(ref[p.RefPos-1])
		}
		switch {
		case p.Residue == nil:
			obsLine[i] = '-'
		case !p.Residue.Modeled:
			obsLine[i] = byte(p.Residue.Name) | 0x20
		default:
			obsLine[i] = byte(p.Residue.Name)
		}
	}
	return string(refLine), string(obsLine)
}

// writeWrapped prints two aligned strings in interleaved blocks of 60
// columns, the way alignment viewers conventionally do.
func writeWrapped(w io.Writer, refLine, obsLine string) error {
	const cols = 60
	for start := 0; start < len(refLine); start += cols {
		end := start + cols
		if end > len(refLine) {
			end = len(refLine)
		}
		_, err := fmt.Fprintf(w, "ref   %s\nchain %s\n\n",
			refLine[start:end], obsLine[start:end])
		if err != nil {
			return err
		}
	}
	return nil
}
