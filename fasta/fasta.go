/*
Package fasta reads and writes protein sequences in FASTA format. It exists
so that a locally stored reference sequence can stand in for the AlphaFold
database fetch.
*/
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/TuftsBCB/seq"
)

// A Reader reads sequences from FASTA encoded input.
//
// Sequence characters are restricted to letters, '*' and '-'; lower case
// letters are translated to upper case. Blank lines and surrounding
// whitespace are ignored wherever they appear.
type Reader struct {
	buf        *bufio.Reader
	line       int
	nextHeader []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		buf:  bufio.NewReader(r),
		line: 1,
	}
}

// Read returns the next sequence in the input, or io.EOF when there are no
// more. It is not safe to call from multiple goroutines.
func (r *Reader) Read() (seq.Sequence, error) {
	s, err := r.read()
	if err == io.EOF {
		return seq.Sequence{}, err
	}
	if err != nil {
		return seq.Sequence{}, fmt.Errorf("fasta: line %d: %s", r.line, err)
	}
	return s, nil
}

// ReadAll reads every sequence in the input. If an error is encountered,
// processing stops and the error is returned.
func (r *Reader) ReadAll() ([]seq.Sequence, error) {
	var sequences []seq.Sequence
	for {
		s, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, s)
	}
	return sequences, nil
}

func (r *Reader) read() (seq.Sequence, error) {
	s := seq.Sequence{}
	seenHeader := false

	// The previous Read may already have consumed this entry's header.
	if r.nextHeader != nil {
		s.Name = trimHeader(r.nextHeader)
		r.nextHeader = nil
		seenHeader = true
	}
	for {
		line, err := r.buf.ReadBytes('\n')
		if err == io.EOF {
			if len(bytes.TrimSpace(line)) == 0 {
				if seenHeader {
					return s, nil
				}
				return seq.Sequence{}, io.EOF
			}
		} else if err != nil {
			return seq.Sequence{}, err
		}
		line = bytes.TrimSpace(line)

		if len(line) == 0 {
			r.line++
			continue
		}
		if !seenHeader {
			if line[0] != '>' {
				return seq.Sequence{}, fmt.Errorf("expected '>', got '%c'", line[0])
			}
			s.Name = trimHeader(line)
			seenHeader = true
			r.line++
			continue
		}
		if line[0] == '>' {
			// The next entry begins here; remember its header.
			r.nextHeader = line
			r.line++
			return s, nil
		}

		for _, b := range line {
			residue, ok := translate(b)
			if !ok {
				return seq.Sequence{},
					fmt.Errorf("invalid sequence character '%c'", b)
			}
			s.Residues = append(s.Residues, residue)
		}
		r.line++
	}
}

func translate(b byte) (seq.Residue, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return seq.Residue(b &^ 0x20), true
	case b >= 'A' && b <= 'Z', b == '*', b == '-':
		return seq.Residue(b), true
	}
	return 0, false
}

func trimHeader(line []byte) string {
	return string(bytes.TrimSpace(bytes.TrimLeft(line, ">")))
}

// A Writer writes sequences to a FASTA encoded file, wrapping sequences at
// Columns characters. A value <= 0 disables wrapping.
type Writer struct {
	Columns int
	buf     *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Columns: 60,
		buf:     bufio.NewWriter(w),
	}
}

// Write writes a single sequence. You may need to call Flush for it to
// reach the underlying writer.
func (w *Writer) Write(s seq.Sequence) error {
	out := make([]byte, len(s.Residues))
	for i, r := range s.Residues {
		out[i] = byte(r)
	}

	var wrapped []string
	if w.Columns <= 0 {
		wrapped = []string{string(out)}
	} else {
		for start := 0; start < len(out); start += w.Columns {
			end := start + w.Columns
			if end > len(out) {
				end = len(out)
			}
			wrapped = append(wrapped, string(out[start:end]))
		}
	}
	_, err := fmt.Fprintf(w.buf, ">%s\n%s\n", s.Name, strings.Join(wrapped, "\n"))
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}
