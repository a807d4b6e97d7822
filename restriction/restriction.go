// Package restriction counts restriction enzyme recognition sites and
// estimates the fragments produced by a digest of a linear molecule.
package restriction

import (
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/Davydov/genelab/bio"
)

// EcoRISite is the EcoRI recognition sequence.
const EcoRISite = "GAATTC"

// Enzyme is a restriction enzyme. Recognition is the site with a caret
// marking the cut position on the top strand, e.g. "G^AATTC".
type Enzyme struct {
	Name        string
	Recognition string
}

// Site returns the recognition sequence without the caret.
func (e Enzyme) Site() string {
	return strings.Replace(e.Recognition, "^", "", 1)
}

// Cut returns the offset of the cut from the start of the site. If
// there is no caret, the enzyme cuts in the middle of the site.
func (e Enzyme) Cut() int {
	if i := strings.IndexByte(e.Recognition, '^'); i != -1 {
		return i
	}
	return len(e.Recognition) / 2
}

func (e Enzyme) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Recognition)
}

var enzymes = []Enzyme{
	{"EcoRI", "G^AATTC"},
	{"BamHI", "G^GATCC"},
	{"HindIII", "A^AGCTT"},
	{"NotI", "GC^GGCCGC"},
	{"PstI", "CTGCA^G"},
	{"SmaI", "CCC^GGG"},
	{"XhoI", "C^TCGAG"},
	{"EcoRV", "GAT^ATC"},
	{"KpnI", "GGTAC^C"},
	{"SalI", "G^TCGAC"},
	{"TaqI", "T^CGA"},
	{"AluI", "AG^CT"},
}

// Enzymes returns the known enzymes in a fixed order.
func Enzymes() []Enzyme {
	res := make([]Enzyme, len(enzymes))
	copy(res, enzymes)
	return res
}

// Lookup finds an enzyme by its name (case insensitive).
func Lookup(name string) (Enzyme, bool) {
	for _, e := range enzymes {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Enzyme{}, false
}

// Sites returns 0-based start positions of all the occurrences of
// site in the cleaned sequence. After a match at i the search resumes
// at i+1, so overlapping occurrences are reported.
func Sites(seq, site string) []int {
	s := bio.Clean(seq)
	site = bio.Clean(site)
	if site == "" {
		return nil
	}
	var pos []int
	for from := 0; from <= len(s); {
		i := strings.Index(s[from:], site)
		if i == -1 {
			break
		}
		pos = append(pos, from+i)
		from += i + 1
	}
	return pos
}

// CountSites returns the number of occurrences of site in the
// sequence, overlapping occurrences included.
func CountSites(seq, site string) int {
	return len(Sites(seq, site))
}

// CountEcoRI returns the number of EcoRI sites.
func CountEcoRI(seq string) int {
	return CountSites(seq, EcoRISite)
}

// EstimateFragmentsFor returns the number of fragments produced by
// cutting a linear molecule at every occurrence of site.
func EstimateFragmentsFor(seq, site string) int {
	return CountSites(seq, site) + 1
}

// EstimateFragments returns the number of fragments of an EcoRI
// digest of a linear molecule.
func EstimateFragments(seq string) int {
	return EstimateFragmentsFor(seq, EcoRISite)
}

// Digest returns the lengths of the fragments produced by cutting the
// linear sequence with the enzyme. Overlapping sites may produce the
// same cut, every cut position is used once.
func Digest(seq string, e Enzyme) []int {
	s := bio.Clean(seq)
	cuts := make(map[int]bool)
	for _, p := range Sites(s, e.Site()) {
		c := p + e.Cut()
		if c > 0 && c < len(s) {
			cuts[c] = true
		}
	}
	pos := make([]int, 0, len(cuts)+2)
	pos = append(pos, 0)
	for c := range cuts {
		pos = append(pos, c)
	}
	sort.Ints(pos)
	pos = append(pos, len(s))

	lengths := make([]int, 0, len(pos)-1)
	for i := 1; i < len(pos); i++ {
		lengths = append(lengths, pos[i]-pos[i-1])
	}
	return lengths
}
