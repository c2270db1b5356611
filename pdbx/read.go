/*
Package pdbx reads PDBx/mmCIF formatted structure files into the same entry
model used for plain PDB files, so that everything downstream (chain
extraction, alignment, annotation) is format agnostic.

Author numbering (auth_asym_id, auth_seq_id, insertion codes) is used
throughout, matching what the PDB format path sees. Note that an entry does
*not* capture everything in an mmCIF file; only the residue-level subset
this tool consumes.
*/
package pdbx

import (
	"fmt"
	"io"

	"github.com/BurntSushi/cif"

	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// Read reads exactly one entry from the reader given. If there are 0
// entries or more than 1 entry, an error is returned.
//
// This function is useful for reading standard PDBx/mmCIF files obtained
// from the PDB (in general, a file may contain more than one entry).
func Read(r io.Reader) (*pdb.Entry, error) {
	entries, err := ReadAll(r)
	if err != nil {
		return nil, err
	} else if len(entries) != 1 {
		return nil, fmt.Errorf("pdbx: expected one entry but got %d",
			len(entries))
	}
	return entries[0], nil
}

// ReadAll reads all entries from the reader provided. An error is returned
// if the input could not be interpreted as a valid CIF file.
func ReadAll(r io.Reader) ([]*pdb.Entry, error) {
	cf, err := cif.Read(r)
	if err != nil {
		return nil, err
	}
	var entries []*pdb.Entry
	for _, block := range cf.Blocks {
		e, err := readBlock(block)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readBlock(b *cif.DataBlock) (*pdb.Entry, error) {
	e := &pdb.Entry{}
	if id, ok := b.Items["entry.id"]; ok {
		e.IdCode = id.String()
	}
	if err := readAtomSites(e, b); err != nil {
		return nil, err
	}
	readUnobserved(e, b)
	if len(e.Chains) == 0 {
		return nil, fmt.Errorf("pdbx: no protein chains in entry %q", e.IdCode)
	}
	return e, nil
}

// readAtomSites folds the atom_site loop into chains and residues, keeping
// only amino acid sites of the first model and, per residue, only the
// representative alternate location (the first one that appears).
func readAtomSites(e *pdb.Entry, b *cif.DataBlock) error {
	loop := asLoop(b, "atom_site.group_pdb", "atom_site.label_atom_id",
		"atom_site.auth_asym_id", "atom_site.auth_seq_id",
		"atom_site.pdbx_pdb_ins_code", "atom_site.label_alt_id",
		"atom_site.auth_comp_id", "atom_site.cartn_x", "atom_site.cartn_y",
		"atom_site.cartn_z", "atom_site.occupancy",
		"atom_site.b_iso_or_equiv", "atom_site.pdbx_pdb_model_num",
		"atom_site.id")
	groups, atoms := loop[0].Strings(), loop[1].Strings()
	chains, seqNums := loop[2].Strings(), loop[3].Ints()
	insCodes, altLocs := loop[4].Strings(), loop[5].Strings()
	comps := loop[6].Strings()
	xs, ys, zs := loop[7].Floats(), loop[8].Floats(), loop[9].Floats()
	occs, bfactors := loop[10].Floats(), loop[11].Floats()
	models, serials := loop[12].Ints(), loop[13].Ints()
	if groups == nil || atoms == nil || chains == nil || seqNums == nil ||
		comps == nil || xs == nil || ys == nil || zs == nil {
		return fmt.Errorf("pdbx: entry %q has no ATOM/HETATM sites", e.IdCode)
	}

	firstModel := 0
	var residue *pdb.Residue
	var chainOf *pdb.Chain
	for i := range groups {
		if models != nil {
			if firstModel == 0 {
				firstModel = models[i]
			} else if models[i] != firstModel {
				continue
			}
		}
		name, ok := pdb.AminoThreeToOne[comps[i]]
		if !ok {
			continue
		}

		chain := e.Chain(chains[i])
		if chain == nil {
			chain = &pdb.Chain{Entry: e, Ident: chains[i]}
			e.Chains = append(e.Chains, chain)
		}
		insCode := oneChar(insCodes, i)
		altLoc := oneChar(altLocs, i)

		if chain != chainOf || residue == nil ||
			residue.SeqNum != seqNums[i] || residue.InsCode != insCode {

			rep := byte('A')
			if altLoc != 0 {
				rep = altLoc
			}
			residue = &pdb.Residue{
				Name:    name,
				SeqNum:  seqNums[i],
				InsCode: insCode,
				AltLoc:  rep,
				Modeled: true,
			}
			chain.Residues = append(chain.Residues, residue)
			chainOf = chain
		} else if altLoc != 0 && altLoc != residue.AltLoc {
			continue
		}

		atom := pdb.Atom{
			Name: atoms[i],
			Het:  groups[i] == "HETATM",
		}
		if serials != nil {
			atom.Serial = serials[i]
		}
		atom.X, atom.Y, atom.Z = xs[i], ys[i], zs[i]
		if occs != nil {
			atom.Occupancy = occs[i]
		}
		if bfactors != nil {
			atom.BFactor = bfactors[i]
		}
		residue.Atoms = append(residue.Atoms, atom)
	}
	return nil
}

// readUnobserved folds the pdbx_unobs_or_zero_occ_residues loop (the mmCIF
// analogue of REMARK 465) into each chain's missing residue list. The loop
// is optional.
func readUnobserved(e *pdb.Entry, b *cif.DataBlock) {
	const prefix = "pdbx_unobs_or_zero_occ_residues."
	if _, ok := b.Loops[prefix+"auth_asym_id"]; !ok {
		if _, ok := b.Items[prefix+"auth_asym_id"]; !ok {
			return
		}
	}
	loop := asLoop(b, prefix+"auth_asym_id", prefix+"auth_seq_id",
		prefix+"auth_comp_id", prefix+"pdb_ins_code")
	chains, seqNums := loop[0].Strings(), loop[1].Ints()
	comps, insCodes := loop[2].Strings(), loop[3].Strings()
	if chains == nil || seqNums == nil || comps == nil {
		return
	}

	for i := range chains {
		name, ok := pdb.AminoThreeToOne[comps[i]]
		if !ok {
			continue
		}
		chain := e.Chain(chains[i])
		if chain == nil {
			chain = &pdb.Chain{Entry: e, Ident: chains[i]}
			e.Chains = append(e.Chains, chain)
		}
		chain.Missing = append(chain.Missing, &pdb.Residue{
			Name:    name,
			SeqNum:  seqNums[i],
			InsCode: oneChar(insCodes, i),
			AltLoc:  'A',
			Modeled: false,
		})
	}
}

// oneChar extracts a single character column value, mapping the CIF "not
// applicable" markers '.' and '?' (and absence) to 0.
func oneChar(col []string, i int) byte {
	if col == nil || i >= len(col) || len(col[i]) == 0 {
		return 0
	}
	if c := col[i][0]; c != '.' && c != '?' {
		return c
	}
	return 0
}

// asLoop retrieves the Loop containing the data tag "key". If a loop does
// not exist, one is synthesised from the non-loop items so that singleton
// and looped declarations read the same. Missing tags yield empty values.
func asLoop(b *cif.DataBlock, key string, others ...string) []cif.ValueLoop {
	tags := append([]string{key}, others...)
	asColumns := func(loop *cif.Loop) []cif.ValueLoop {
		vloop := make([]cif.ValueLoop, len(tags))
		for i, tag := range tags {
			vloop[i] = loop.Get(tag)
		}
		return vloop
	}

	if loop, ok := b.Loops[key]; ok {
		return asColumns(loop)
	}
	loop := &cif.Loop{
		Columns: make(map[string]int, len(tags)),
		Values:  make([]cif.ValueLoop, len(tags)),
	}
	for i, tag := range tags {
		loop.Columns[tag] = i
		switch v := value(b, tag).Raw().(type) {
		case string:
			loop.Values[i] = cif.AsValues([]string{v})
		case int:
			loop.Values[i] = cif.AsValues([]int{v})
		case float64:
			loop.Values[i] = cif.AsValues([]float64{v})
		default:
			panic(fmt.Sprintf("unknown value type %T for %s", v, tag))
		}
	}
	return asColumns(loop)
}

// value returns the data value tagged by "key", or an empty string value
// when it does not exist.
func value(b *cif.DataBlock, key string) cif.Value {
	if v, ok := b.Items[key]; ok {
		return v
	}
	return cif.AsValue("")
}
