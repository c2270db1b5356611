package am

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/TuftsBCB/seq"
)

// ReadVariants parses an AlphaMissense substitution CSV, as published per
// UniProt accession in the AlphaFold database. The file carries a header
// line and at least the columns "protein_variant" (like "M1A") and
// "am_pathogenicity"; any other columns are ignored.
func ReadVariants(r io.Reader) ([]Variant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("am: empty variant file")
	} else if err != nil {
		return nil, err
	}
	variantCol, scoreCol := -1, -1
	for i, name := range header {
		switch name {
		case "protein_variant":
			variantCol = i
		case "am_pathogenicity":
			scoreCol = i
		}
	}
	if variantCol == -1 || scoreCol == -1 {
		return nil, fmt.Errorf("am: missing protein_variant or " +
			"am_pathogenicity column")
	}

	var variants []Variant
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(record) <= variantCol || len(record) <= scoreCol {
			return nil, fmt.Errorf("am: short record %q", record)
		}
		v, err := parseVariant(record[variantCol])
		if err != nil {
			return nil, err
		}
		v.Score, err = strconv.ParseFloat(record[scoreCol], 64)
		if err != nil {
			return nil, fmt.Errorf("am: bad score for %s: %w",
				record[variantCol], err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// parseVariant splits a substitution label like "M1A" into its wild-type
// residue, 1-based position and substituted residue.
func parseVariant(s string) (Variant, error) {
	if len(s) < 3 || !isUpper(s[0]) || !isUpper(s[len(s)-1]) {
		return Variant{}, fmt.Errorf("am: bad variant label %q", s)
	}
	pos, err := strconv.Atoi(s[1 : len(s)-1])
	if err != nil {
		return Variant{}, fmt.Errorf("am: bad variant label %q", s)
	}
	return Variant{
		Position: pos,
		Ref:      seq.Residue(s[0]),
		Alt:      seq.Residue(s[len(s)-1]),
	}, nil
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
