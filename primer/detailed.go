package primer

import (
	"fmt"
	"math"

	"bitbucket.org/Davydov/genelab/bio"
)

// Recommendation kinds.
const (
	Warning = "warning"
	Success = "success"
)

// Step is a narrated stage of the primer design.
type Step struct {
	Number      int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Sequence    string   `json:"sequence,omitempty"`
	Result      string   `json:"result,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// Recommendation is a warning or a success message produced by the
// final validation.
type Recommendation struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Detailed is the result of DesignDetailed.
type Detailed struct {
	Forward             Primer           `json:"forward"`
	Reverse             Primer           `json:"reverse"`
	AmplificationLength int              `json:"amplificationLength"`
	TmDifference        float64          `json:"tmDifference"`
	AnnealingTemp       float64          `json:"annealingTemp"`
	Steps               []Step           `json:"steps"`
	Recommendations     []Recommendation `json:"recommendations"`
}

// Warnings returns only the warning messages.
func (d *Detailed) Warnings() (w []string) {
	for _, r := range d.Recommendations {
		if r.Kind == Warning {
			w = append(w, r.Message)
		}
	}
	return
}

func (d *Detailed) addStep(title, description string) *Step {
	d.Steps = append(d.Steps, Step{
		Number:      len(d.Steps) + 1,
		Title:       title,
		Description: description,
	})
	return &d.Steps[len(d.Steps)-1]
}

func primerDetails(p Primer) []string {
	return []string{
		fmt.Sprintf("Length: %d nt", p.Length),
		fmt.Sprintf("GC content: %.1f%%", p.GCContent),
		fmt.Sprintf("Melting temperature: %.1f°C", p.MeltingTemp),
	}
}

// DesignDetailed designs a primer pair and records every design
// stage. The amplification window excludes the margins of the
// template. The forward primer starts at the window start, the reverse
// primer template starts ReverseOffset bases before the window end.
// Primer lengths are chosen by melting temperature.
func DesignDetailed(seq string, s Settings) (*Detailed, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	clean, err := bio.Validate(seq)
	if err != nil {
		return nil, err
	}
	if len(clean) < s.MinTemplate {
		return nil, &LengthError{Length: len(clean), Min: s.MinTemplate}
	}
	d := &Detailed{}

	// 1. cleaning
	st := d.addStep("Sequence preparation",
		"Whitespace is removed and bases are converted to uppercase.")
	st.Details = []string{
		fmt.Sprintf("Length before cleaning: %d", len([]rune(seq))),
		fmt.Sprintf("Length after cleaning: %d", len(clean)),
	}

	// 2. amplification window
	n := float64(len(clean))
	start := int(math.Floor(n * s.Margin))
	end := int(math.Floor(n * (1 - s.Margin)))
	d.AmplificationLength = end - start
	st = d.addStep("Amplification window",
		fmt.Sprintf("%.0f%% of the sequence is left out on each side to avoid edge effects.", s.Margin*100))
	st.Result = fmt.Sprintf("Positions %d-%d, %d bp", start+1, end, d.AmplificationLength)

	// 3. forward primer
	fl, err := s.OptimalLength(clean, start)
	if err != nil {
		return nil, fmt.Errorf("forward primer: %w", err)
	}
	d.Forward = NewPrimer(clean[start:start+fl], start, start+fl)
	st = d.addStep("Forward primer",
		fmt.Sprintf("Length between %d and %d nt with melting temperature closest to %.1f°C, starting at the window start.",
			s.MinLength, s.MaxLength, s.TargetTm))
	st.Sequence = "5'" + d.Forward.Sequence + "3'"
	st.Details = primerDetails(d.Forward)

	// 4. reverse primer
	rstart := end - s.ReverseOffset
	if rstart < 0 {
		return nil, fmt.Errorf("reverse primer: %w", ErrNoCandidate)
	}
	rl, err := s.OptimalLength(clean, rstart)
	if err != nil {
		return nil, fmt.Errorf("reverse primer: %w", err)
	}
	template := clean[rstart : rstart+rl]
	rev, err := ReverseComplement(template)
	if err != nil {
		return nil, err
	}
	d.Reverse = NewPrimer(rev, rstart, rstart+rl)
	st = d.addStep("Reverse primer",
		"The template at the window end is selected the same way and reverse complemented.")
	st.Sequence = "5'" + d.Reverse.Sequence + "3'"
	st.Details = append([]string{"Template: 5'" + template + "3'"}, primerDetails(d.Reverse)...)

	// 5. validation
	d.TmDifference = math.Abs(d.Forward.MeltingTemp - d.Reverse.MeltingTemp)
	d.AnnealingTemp = math.Min(d.Forward.MeltingTemp, d.Reverse.MeltingTemp)
	if d.TmDifference > s.MaxTmDifference {
		d.warn("Melting temperature difference is %.1f°C, more than %.1f°C", d.TmDifference, s.MaxTmDifference)
	}
	for _, p := range []struct {
		name string
		Primer
	}{{"forward", d.Forward}, {"reverse", d.Reverse}} {
		if p.GCContent < s.MinGC || p.GCContent > s.MaxGC {
			d.warn("GC content of the %s primer is %.1f%%, outside of %.0f-%.0f%%", p.name, p.GCContent, s.MinGC, s.MaxGC)
		}
	}
	if d.AmplificationLength > s.MaxAmplicon {
		d.warn("Amplification length %d bp is longer than %d bp", d.AmplificationLength, s.MaxAmplicon)
	}
	if len(d.Recommendations) == 0 {
		d.Recommendations = append(d.Recommendations, Recommendation{
			Kind:    Success,
			Message: "Primer pair parameters are optimal",
		})
	}
	st = d.addStep("Validation",
		"Melting temperatures, GC content and amplification length are checked.")
	st.Result = fmt.Sprintf("Recommended annealing temperature: %.1f°C", d.AnnealingTemp)
	st.Details = []string{fmt.Sprintf("Melting temperature difference: %.1f°C", d.TmDifference)}
	for _, r := range d.Recommendations {
		st.Details = append(st.Details, r.Kind+": "+r.Message)
	}

	log.Debugf("designed primers %v and %v", d.Forward, d.Reverse)
	return d, nil
}

func (d *Detailed) warn(format string, args ...interface{}) {
	d.Recommendations = append(d.Recommendations, Recommendation{
		Kind:    Warning,
		Message: fmt.Sprintf(format, args...),
	})
}
