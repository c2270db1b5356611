package pdbx

import (
	"strings"
	"testing"

	"github.com/TuftsBCB/seq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulynamagana/pdb-alphamissense-annotator/pdb"
)

// smallCif is chain A with MET 1, SER 3 in two conformations and TRP 4,
// LYS 2 unobserved, chain B with one glycine, plus a water and a second
// model that must both be ignored.
const smallCif = `data_1ABC
_entry.id 1ABC
loop_
_atom_site.group_PDB
_atom_site.id
_atom_site.label_atom_id
_atom_site.label_alt_id
_atom_site.auth_comp_id
_atom_site.auth_asym_id
_atom_site.auth_seq_id
_atom_site.pdbx_PDB_ins_code
_atom_site.Cartn_x
_atom_site.Cartn_y
_atom_site.Cartn_z
_atom_site.occupancy
_atom_site.B_iso_or_equiv
_atom_site.pdbx_PDB_model_num
ATOM   1 N  . MET A 1  ? 1.0 2.0 3.0 1.00 20.00 1
ATOM   2 CA . MET A 1  ? 1.5 2.5 3.5 1.00 21.50 1
ATOM   3 CA A SER A 3  ? 1.0 2.0 3.0 0.50 30.00 1
ATOM   4 CA B SER A 3  ? 1.0 2.0 3.0 0.50 31.00 1
ATOM   5 CA . TRP A 4  ? 1.0 2.0 3.0 1.00 40.00 1
ATOM   6 CA . GLY B 1  ? 1.0 2.0 3.0 1.00 50.00 1
HETATM 7 O  . HOH A 99 ? 1.0 2.0 3.0 1.00 60.00 1
ATOM   8 CA . MET A 1  ? 9.0 9.0 9.0 1.00 99.00 2
loop_
_pdbx_unobs_or_zero_occ_residues.auth_asym_id
_pdbx_unobs_or_zero_occ_residues.auth_comp_id
_pdbx_unobs_or_zero_occ_residues.auth_seq_id
_pdbx_unobs_or_zero_occ_residues.PDB_ins_code
A LYS 2 ?
`

func TestRead(t *testing.T) {
	entry, err := Read(strings.NewReader(smallCif))
	require.NoError(t, err)

	assert.Equal(t, "1ABC", entry.IdCode)
	require.Len(t, entry.Chains, 2)

	a := entry.Chain("A")
	require.NotNil(t, a)
	require.Len(t, a.Residues, 3)
	require.Len(t, a.Missing, 1)

	met := a.Residues[0]
	assert.Equal(t, seq.Residue('M'), met.Name)
	assert.Equal(t, 1, met.SeqNum)
	require.Len(t, met.Atoms, 2)
	assert.Equal(t, 21.5, met.Atoms[1].BFactor)
	assert.Equal(t, 1.5, met.Atoms[1].X)

	// The first conformation of SER 3 is the representative one.
	ser := a.Residues[1]
	assert.Equal(t, byte('A'), ser.AltLoc)
	require.Len(t, ser.Atoms, 1)
	assert.Equal(t, 30.0, ser.Atoms[0].BFactor)

	missing := a.Missing[0]
	assert.Equal(t, seq.Residue('K'), missing.Name)
	assert.Equal(t, 2, missing.SeqNum)
	assert.False(t, missing.Modeled)

	b := entry.Chain("B")
	require.NotNil(t, b)
	require.Len(t, b.Residues, 1)
}

func TestChainSequenceFromCif(t *testing.T) {
	entry, err := Read(strings.NewReader(smallCif))
	require.NoError(t, err)

	residues, err := entry.ChainSequence("A")
	require.NoError(t, err)
	assert.Equal(t, []seq.Residue("MKSW"), pdb.Symbols(residues))
}

func TestReadNoChains(t *testing.T) {
	_, err := Read(strings.NewReader("data_X\n_entry.id X\n"))
	assert.Error(t, err)
}
