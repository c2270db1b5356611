package pdb

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// ErrChainNotFound is returned when a requested chain identifier is absent
// from an entry. It is fatal for that chain only; other chains in the same
// batch are unaffected.
var ErrChainNotFound = fmt.Errorf("pdb: chain not found")

// Entry represents all information known about a particular structure file
// (that has been implemented in this package).
type Entry struct {
	Path           string
	IdCode         string
	Classification string
	Chains         []*Chain
}

// Chain represents a protein chain in a structure file. SeqRes holds the
// declared sequence from SEQRES records (which may be empty), Residues the
// modeled residues from ATOM records in file order, and Missing the residues
// reported in REMARK 465 as having no observed coordinates.
type Chain struct {
	Entry    *Entry
	Ident    string
	SeqRes   []seq.Residue
	Residues []*Residue
	Missing  []*Residue
}

// Residue is a single amino acid as observed (or reported missing) in a
// structure. SeqNum and InsCode are the author's numbering; AltLoc is the
// representative conformation identifier ('A' when the file gives none).
// Atoms of non-representative conformations are not retained.
type Residue struct {
	Name    seq.Residue
	SeqNum  int
	InsCode byte
	AltLoc  byte
	Modeled bool
	Atoms   []Atom
}

// Atom is a single ATOM or HETATM record.
type Atom struct {
	Serial    int
	Name      string
	Het       bool
	Occupancy float64
	BFactor   float64
	structure.Coords
}

// ResidueKey identifies a structural residue within an entry: chain
// identifier plus author numbering. Conformation is deliberately excluded;
// annotations apply to the representative conformation only.
type ResidueKey struct {
	Chain   string
	SeqNum  int
	InsCode byte
}

// Key returns the structural key of r within chain ident.
func (r *Residue) Key(ident string) ResidueKey {
	return ResidueKey{Chain: ident, SeqNum: r.SeqNum, InsCode: r.InsCode}
}

func (a *Residue) less(b *Residue) bool {
	return a.SeqNum < b.SeqNum ||
		(a.SeqNum == b.SeqNum && a.InsCode < b.InsCode)
}

// Chain looks for the chain with identifier ident and returns it. 'nil' is
// returned if the chain could not be found.
func (e *Entry) Chain(ident string) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// OneChain returns a single chain in the entry. If there is more than one
// chain, OneChain will panic. This is convenient when you expect a structure
// to have only a single chain, but don't know the name.
func (e *Entry) OneChain() *Chain {
	if len(e.Chains) != 1 {
		panic(fmt.Sprintf("OneChain can only be called on entries with ONE "+
			"chain. But the '%s' entry has %d chains.",
			e.Path, len(e.Chains)))
	}
	return e.Chains[0]
}

// getOrMakeChain looks for a chain in the 'Chains' slice corresponding to
// the chain identifier. If one exists, it is returned. Otherwise a new chain
// is created and returned.
func (e *Entry) getOrMakeChain(ident string) *Chain {
	if ident == " " || ident == "" {
		ident = "_"
	}
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:    e,
		Ident:    ident,
		SeqRes:   make([]seq.Residue, 0, 10),
		Residues: make([]*Residue, 0, 50),
	}
	e.Chains = append(e.Chains, chain)
	return chain
}

// String returns a FASTA-like formatted string of this chain's observed
// sequence. Unmodeled residues are written in lower case.
func (c *Chain) String() string {
	residues := c.ResidueSequence()
	bs := make([]byte, len(residues))
	for i, r := range residues {
		if r.Modeled {
			bs[i] = byte(r.Name)
		} else {
			bs[i] = byte(r.Name) | 0x20
		}
	}
	return strings.TrimSpace(
		fmt.Sprintf("> Chain %s :: length %d\n%s", c.Ident, len(bs), bs))
}

func (e *Entry) String() string {
	lines := make([]string, 0, len(e.Chains))
	for _, chain := range e.Chains {
		lines = append(lines, chain.String())
	}
	return strings.Join(lines, "\n")
}
