package bio

import (
	"fmt"
	"strings"
)

// ChunkSize is the number of bases per line of the formatted output.
const ChunkSize = 10

// Mark is a pair of strings surrounding a marked region.
type Mark struct {
	Open  string
	Close string
}

// Markup defines how the regions of an annotated sequence are
// highlighted. Untranslated flanks are never marked.
type Markup struct {
	Start  Mark
	Stop   Mark
	Coding Mark
}

var (
	// HTMLMarkup highlights regions with colored spans.
	HTMLMarkup = Markup{
		Start:  Mark{`<span class="text-green-600 font-bold">`, "</span>"},
		Stop:   Mark{`<span class="text-red-600 font-bold">`, "</span>"},
		Coding: Mark{`<span class="text-blue-600">`, "</span>"},
	}
	// ANSIMarkup highlights regions with terminal colors.
	ANSIMarkup = Markup{
		Start:  Mark{"\x1b[1;32m", "\x1b[0m"},
		Stop:   Mark{"\x1b[1;31m", "\x1b[0m"},
		Coding: Mark{"\x1b[34m", "\x1b[0m"},
	}
	// PlainMarkup uses brackets, codons are uppercase anyway.
	PlainMarkup = Markup{
		Start:  Mark{"[", "]"},
		Stop:   Mark{"{", "}"},
		Coding: Mark{"", ""},
	}
	// Markups maps markup names to markups.
	Markups = map[string]Markup{
		"html":  HTMLMarkup,
		"ansi":  ANSIMarkup,
		"plain": PlainMarkup,
	}
)

type region int

const (
	flank region = iota
	startRegion
	codingRegion
	stopRegion
)

// Annotation stores positions of the open reading frame.
type Annotation struct {
	// Start is the index of the first ATG or -1.
	Start int
	// Stop is the index of the first in-frame stop codon after Start
	// or -1.
	Stop int
	// StopCodon is the stop codon found at Stop.
	StopCodon string
}

// Annotate finds the first start codon and the first in-frame stop
// codon following it.
func Annotate(seq string) Annotation {
	s := Clean(seq)
	a := Annotation{Start: FindStart(s), Stop: -1}
	if a.Start == -1 {
		return a
	}
	a.Stop = FindStop(s, a.Start)
	if a.Stop != -1 {
		a.StopCodon = s[a.Stop : a.Stop+3]
	}
	return a
}

func (a Annotation) region(pos int) region {
	switch {
	case a.Start == -1 || pos < a.Start:
		return flank
	case pos < a.Start+3:
		return startRegion
	case a.Stop == -1 || pos < a.Stop:
		return codingRegion
	case pos < a.Stop+3:
		return stopRegion
	}
	return flank
}

func (m Markup) mark(r region) Mark {
	switch r {
	case startRegion:
		return m.Start
	case stopRegion:
		return m.Stop
	case codingRegion:
		return m.Coding
	}
	return Mark{}
}

func numberLine(i int, chunk string) string {
	return fmt.Sprintf("%3d %s", i+1, chunk)
}

// FormatWithNumbers splits the cleaned sequence into chunks of ten
// bases, one per line. Every line starts with the 1-based position of
// its first base right-justified to three characters.
func FormatWithNumbers(seq string) string {
	s := Clean(seq)
	lines := make([]string, 0, len(s)/ChunkSize+1)
	for i := 0; i < len(s); i += ChunkSize {
		end := i + ChunkSize
		if end > len(s) {
			end = len(s)
		}
		lines = append(lines, numberLine(i, s[i:end]))
	}
	return strings.Join(lines, "\n")
}

// FormatWithAnnotation formats the sequence like FormatWithNumbers
// and highlights the start codon, the stop codon and the coding region
// between them using markup. If there is no stop codon, the coding
// region extends to the end of the sequence.
func FormatWithAnnotation(seq string, markup Markup) string {
	s := Clean(seq)
	a := Annotate(s)
	lines := make([]string, 0, len(s)/ChunkSize+1)
	for i := 0; i < len(s); i += ChunkSize {
		end := i + ChunkSize
		if end > len(s) {
			end = len(s)
		}
		var b strings.Builder
		// Group consecutive bases of the same region.
		for j := i; j < end; {
			r := a.region(j)
			k := j + 1
			for k < end && a.region(k) == r {
				k++
			}
			m := markup.mark(r)
			b.WriteString(m.Open)
			b.WriteString(s[j:k])
			b.WriteString(m.Close)
			j = k
		}
		lines = append(lines, numberLine(i, b.String()))
	}
	return strings.Join(lines, "\n")
}
