package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// ReadPDB reads a PDB entry from a file. If the file name ends with ".gz",
// gzip decompression is used.
func ReadPDB(fileName string) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		reader, err = gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
	}

	entry, err := Read(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	entry.Path = fileName

	// If we couldn't find an Id code, inspect the base name of the file path.
	if len(entry.IdCode) == 0 {
		name := path.Base(fileName)
		if len(name) >= 7 && name[0:3] == "pdb" {
			entry.IdCode = name[3:7]
		}
	}
	return entry, nil
}

// Read reads a PDB entry from the reader given. An error is returned if the
// input does not contain a single protein chain.
func Read(r io.Reader) (*Entry, error) {
	entry := &Entry{Chains: make([]*Chain, 0, 2)}

	// Traverse each line and process it according to the record name in the
	// first six columns. The order of ATOM records is preserved as read.
	// Only the first model of a multi-model file is kept.
	endmdl := false
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := pad(scanner.Bytes())
		switch strings.TrimSpace(string(line[0:6])) {
		case "HEADER":
			entry.parseHeader(line)
		case "SEQRES":
			entry.parseSeqres(line)
		case "REMARK":
			entry.parseMissing(line)
		case "ATOM":
			if !endmdl {
				entry.parseAtom(line, false)
			}
		case "HETATM":
			if !endmdl {
				entry.parseAtom(line, true)
			}
		case "ENDMDL":
			endmdl = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf("input does not appear to be a valid PDB file")
	}
	return entry, nil
}

// pad extends a line to the full 80 column PDB record width so that fixed
// column slicing is always in bounds.
func pad(line []byte) []byte {
	if len(line) >= 80 {
		return line
	}
	padded := make([]byte, 80)
	copy(padded, line)
	for i := len(line); i < 80; i++ {
		padded[i] = ' '
	}
	return padded
}

// parseHeader loads the "idCode" and "classification" fields from the
// header record.
func (e *Entry) parseHeader(line []byte) {
	e.Classification = strings.TrimSpace(string(line[10:50]))
	e.IdCode = strings.ToLower(strings.TrimSpace(string(line[62:66])))
}

// parseSeqres reads amino acid residues from a SEQRES record into the
// chain's declared sequence. Residue names that aren't amino acids (nucleic
// acid chains, for instance) are ignored.
//
// N.B. This assumes that the SEQRES records are in order in the PDB file.
func (e *Entry) parseSeqres(line []byte) {
	chain := e.getOrMakeChain(string(line[11]))

	// Residues are in columns 19-21, 23-25, 27-29, ..., 67-69.
	for i := 19; i+3 <= len(line); i += 4 {
		name := strings.TrimSpace(string(line[i : i+3]))
		if len(name) == 0 {
			break
		}
		if single, ok := fromThreeLetter(name); ok {
			chain.SeqRes = append(chain.SeqRes, single)
		}
	}
}

// parseMissing reads one residue from a REMARK 465 record (the PDB's list
// of residues without observed coordinates). Header and free-text lines in
// the remark block are skipped.
//
// The data lines end with: residue name, chain identifier and the author
// sequence number with an optional insertion code (e.g. "100A"). An NMR
// model number may precede the residue name; taking the last three fields
// sidesteps it.
func (e *Entry) parseMissing(line []byte) {
	fields := strings.Fields(string(line))
	if len(fields) < 5 || fields[1] != "465" {
		return
	}
	name, chainIdent, num := fields[len(fields)-3],
		fields[len(fields)-2], fields[len(fields)-1]

	single, ok := fromThreeLetter(name)
	if !ok || len(chainIdent) != 1 {
		return
	}
	seqNum, insCode, ok := splitSeqNum(num)
	if !ok {
		return
	}

	chain := e.getOrMakeChain(chainIdent)
	chain.Missing = append(chain.Missing, &Residue{
		Name:    single,
		SeqNum:  seqNum,
		InsCode: insCode,
		AltLoc:  'A',
		Modeled: false,
	})
}

// parseAtom loads one ATOM or HETATM record into its chain, grouping atoms
// into residues by author numbering. HETATM records are only kept when they
// carry an amino acid residue (selenomethionine and friends).
//
// Alternate locations: the first conformation seen for a residue is its
// representative; atoms belonging to any other conformation are dropped.
func (e *Entry) parseAtom(line []byte, het bool) {
	name, ok := fromThreeLetter(strings.TrimSpace(string(line[17:20])))
	if !ok {
		return
	}

	seqNum, err := strconv.Atoi(strings.TrimSpace(string(line[22:26])))
	if err != nil {
		return
	}
	insCode := line[26]
	if insCode == ' ' {
		insCode = 0
	}
	altLoc := line[16]

	chain := e.getOrMakeChain(string(line[21]))
	var residue *Residue
	if n := len(chain.Residues); n > 0 {
		last := chain.Residues[n-1]
		if last.SeqNum == seqNum && last.InsCode == insCode {
			residue = last
		}
	}
	if residue == nil {
		rep := byte('A')
		if altLoc != ' ' {
			rep = altLoc
		}
		residue = &Residue{
			Name:    name,
			SeqNum:  seqNum,
			InsCode: insCode,
			AltLoc:  rep,
			Modeled: true,
			Atoms:   make([]Atom, 0, 8),
		}
		chain.Residues = append(chain.Residues, residue)
	} else if altLoc != ' ' && altLoc != residue.AltLoc {
		return
	}

	atom := Atom{
		Name: strings.TrimSpace(string(line[12:16])),
		Het:  het,
	}
	if serial, err := strconv.Atoi(strings.TrimSpace(string(line[6:11]))); err == nil {
		atom.Serial = serial
	}
	atom.X = parseFloat(line[30:38])
	atom.Y = parseFloat(line[38:46])
	atom.Z = parseFloat(line[46:54])
	atom.Occupancy = parseFloat(line[54:60])
	atom.BFactor = parseFloat(line[60:66])

	residue.Atoms = append(residue.Atoms, atom)
}

// splitSeqNum splits an author sequence number with an optional trailing
// insertion code, like "211" or "100A".
func splitSeqNum(s string) (int, byte, bool) {
	insCode := byte(0)
	if len(s) > 0 {
		if last := s[len(s)-1]; last >= 'A' && last <= 'Z' {
			insCode = last
			s = s[:len(s)-1]
		}
	}
	num, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return num, insCode, true
}

func parseFloat(bs []byte) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(bs)), 64)
	if err != nil {
		return 0
	}
	return f
}
