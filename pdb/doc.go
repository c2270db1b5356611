/*
Package pdb provides support for extracting residue-level information from
PDB files: the amino acid sequence of each chain as observed in the ATOM
records, the residues reported missing in REMARK 465, author numbering with
insertion codes, alternate locations and B-factors.

The package also knows how to rewrite the B-factor column of a PDB file from
a residue-to-score assignment, which is how pathogenicity annotations are
carried into the output structure.

Only the first model of a multi-model (NMR) file is read. Anything in a PDB
file that isn't an amino acid residue is ignored.
*/
package pdb
