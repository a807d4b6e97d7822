// Package bio provides functions related to nucleotide sequences and
// the genetic code.
package bio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

const (
	// StartCodon is the codon used to find the beginning of an open
	// reading frame.
	StartCodon = "ATG"
	// StopMark is the amino acid symbol produced by a stop codon.
	StopMark = '*'
	// UnknownMark is the amino acid symbol produced by a codon missing
	// from the genetic code.
	UnknownMark = '?'
)

var (
	// GeneticCode is a map, codon string (capital letters) is the key,
	// amino acids (capital letter) are values. Stop codons map to '*'.
	GeneticCode = map[string]byte{
		"ATA": 'I', "ATC": 'I', "ATT": 'I', "ATG": 'M',
		"ACA": 'T', "ACC": 'T', "ACG": 'T', "ACT": 'T',
		"AAC": 'N', "AAT": 'N', "AAA": 'K', "AAG": 'K',
		"AGC": 'S', "AGT": 'S', "AGA": 'R', "AGG": 'R',
		"CTA": 'L', "CTC": 'L', "CTG": 'L', "CTT": 'L',
		"CCA": 'P', "CCC": 'P', "CCG": 'P', "CCT": 'P',
		"CAC": 'H', "CAT": 'H', "CAA": 'Q', "CAG": 'Q',
		"CGA": 'R', "CGC": 'R', "CGG": 'R', "CGT": 'R',
		"GTA": 'V', "GTC": 'V', "GTG": 'V', "GTT": 'V',
		"GCA": 'A', "GCC": 'A', "GCG": 'A', "GCT": 'A',
		"GAC": 'D', "GAT": 'D', "GAA": 'E', "GAG": 'E',
		"GGA": 'G', "GGC": 'G', "GGG": 'G', "GGT": 'G',
		"TCA": 'S', "TCC": 'S', "TCG": 'S', "TCT": 'S',
		"TTC": 'F', "TTT": 'F', "TTA": 'L', "TTG": 'L',
		"TAC": 'Y', "TAT": 'Y', "TAA": '*', "TAG": '*',
		"TGC": 'C', "TGT": 'C', "TGA": '*', "TGG": 'W'}

	// ErrEmptySequence is returned when a sequence has no bases
	// after cleaning.
	ErrEmptySequence = errors.New("empty sequence")

	dnaRe = regexp.MustCompile(`^[ATCG]+$`)
)

// InvalidBaseError reports a character outside of the A, T, C, G
// alphabet.
type InvalidBaseError struct {
	// Base is the offending character.
	Base rune
	// Position is 1-based.
	Position int
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base %q at position %d, only A, T, C and G are allowed", e.Base, e.Position)
}

// Clean removes all the whitespace from the sequence and converts it
// to uppercase.
func Clean(seq string) string {
	var b strings.Builder
	b.Grow(len(seq))
	for _, r := range seq {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// IsValidDNA returns true if the cleaned sequence is not empty and
// consists of A, T, C and G only.
func IsValidDNA(seq string) bool {
	return dnaRe.MatchString(Clean(seq))
}

// Validate cleans the sequence and checks the alphabet. It returns
// the cleaned sequence or an error describing the first problem.
func Validate(seq string) (string, error) {
	s := Clean(seq)
	if s == "" {
		return "", ErrEmptySequence
	}
	for i, r := range []rune(s) {
		switch r {
		case 'A', 'T', 'C', 'G':
		default:
			return "", &InvalidBaseError{Base: r, Position: i + 1}
		}
	}
	return s, nil
}

// FindStart returns the index of the first ATG in the cleaned
// sequence or -1. The reading frame is not taken into account.
func FindStart(seq string) int {
	return strings.Index(Clean(seq), StartCodon)
}

// IsStopCodon tests if the string is a stop-codon (DNA alphabet,
// capital letters).
func IsStopCodon(codon string) bool {
	return GeneticCode[codon] == StopMark
}

// FindStop returns the index of the first stop codon which is in
// frame with start and located after it. It returns -1 if there is
// no such codon or if start is negative.
func FindStop(seq string, start int) int {
	s := Clean(seq)
	if start < 0 {
		return -1
	}
	for i := start + 3; i+3 <= len(s); i += 3 {
		if IsStopCodon(s[i : i+3]) {
			return i
		}
	}
	return -1
}

// Translate translates the cleaned nucleotide sequence into the
// protein string. Codons are read from the first position, an
// incomplete trailing codon is ignored. Stop codons are translated as
// '*', codons which are not in the genetic code as '?'.
func Translate(nseq string) string {
	s := Clean(nseq)
	var b strings.Builder
	b.Grow(len(s) / 3)
	for i := 0; i+3 <= len(s); i += 3 {
		aa := GeneticCode[s[i:i+3]]
		if aa == 0 {
			aa = UnknownMark
		}
		b.WriteByte(aa)
	}
	return b.String()
}

// ProteinLength returns the number of amino acids encoded by the
// open reading frame which begins at the first ATG. Translation stops
// at the first stop codon; if there is none, the whole remainder is
// counted. Sequences without ATG have zero length.
func ProteinLength(seq string) int {
	s := Clean(seq)
	start := strings.Index(s, StartCodon)
	if start == -1 {
		return 0
	}
	protein := Translate(s[start:])
	if stop := strings.IndexByte(protein, StopMark); stop != -1 {
		return stop
	}
	return len(protein)
}

// Sequence is a type which is intended for storing nucleotide or
// protein sequence with it's name.
type Sequence struct {
	Name     string
	Sequence string
}

// Sequences stores multiple sequences. E.g. a sequence alignment.
type Sequences []Sequence

// ParseFasta parses FASTA sequences from a reader.
func ParseFasta(rd io.Reader) (seqs Sequences, err error) {
	seqs = make(Sequences, 0, 10)
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			seq := Sequence{Name: strings.TrimSpace(line[1:])}
			seqs = append(seqs, seq)
		} else {
			if len(seqs) == 0 {
				return nil, errors.New("sequence w/o prefix")
			}
			seqs[len(seqs)-1].Sequence += Clean(line)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return
}

// Wrap inputs a string and wraps it so string length is n characters
// or less.
func Wrap(seq string, n int) (s string) {
	for i := 0; i < len(seq); i += n {
		end := i + n
		if end > len(seq) {
			end = len(seq)
		}
		s += seq[i:end] + "\n"
	}
	return
}

// String returns a sequence in FASTA format.
func (seq Sequence) String() (s string) {
	s = ">" + seq.Name + "\n" + Wrap(seq.Sequence, 80)
	return
}

// String returns sequences in FASTA format.
func (seqs Sequences) String() (s string) {
	for _, seq := range seqs {
		s += seq.String()
	}
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}
