package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Davydov/genelab/bio"
	"bitbucket.org/Davydov/genelab/config"
	"bitbucket.org/Davydov/genelab/dendrogram"
	"bitbucket.org/Davydov/genelab/dist"
	"bitbucket.org/Davydov/genelab/mutation"
	"bitbucket.org/Davydov/genelab/primer"
	"bitbucket.org/Davydov/genelab/restriction"
	"bitbucket.org/Davydov/genelab/tree"
	"bitbucket.org/Davydov/genelab/upgma"
)

// readInput returns the sequences from a fasta file or a single
// sequence from the command line.
func readInput(seq, fastaFn string) (bio.Sequences, error) {
	if fastaFn != "" {
		f := osUtil.Open(fastaFn)
		defer simpleUtil.DeferClose(f)
		seqs, err := bio.ParseFasta(f)
		if err != nil {
			return nil, err
		}
		if len(seqs) == 0 {
			return nil, fmt.Errorf("no sequences in %s", fastaFn)
		}
		log.Infof("Read %d sequence(s) from %s", len(seqs), fastaFn)
		return seqs, nil
	}
	if seq == "" {
		return nil, errors.New("sequence or fasta file is required")
	}
	return bio.Sequences{{Name: "input", Sequence: seq}}, nil
}

func runTranslate(w io.Writer, seqs bio.Sequences, markupName string) ([]TranslateSummary, error) {
	markup, ok := bio.Markups[markupName]
	if !ok {
		return nil, fmt.Errorf("unknown markup: %s", markupName)
	}
	res := make([]TranslateSummary, 0, len(seqs))
	for _, seq := range seqs {
		s, err := bio.Validate(seq.Sequence)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", seq.Name, err)
		}
		a := bio.Annotate(s)
		sum := TranslateSummary{
			Name:          seq.Name,
			Sequence:      s,
			Start:         a.Start + 1,
			Stop:          a.Stop + 1,
			StopCodon:     a.StopCodon,
			ProteinLength: bio.ProteinLength(s),
		}
		if a.Start >= 0 {
			sum.Translation = bio.Translate(s[a.Start:])
		}
		res = append(res, sum)

		fmt.Fprintf(w, ">%s\n", seq.Name)
		fmt.Fprintln(w, bio.FormatWithNumbers(s))
		fmt.Fprintln(w, bio.FormatWithAnnotation(s, markup))
		if a.Start < 0 {
			fmt.Fprintln(w, "no start codon")
			continue
		}
		fmt.Fprintf(w, "start: %d\n", sum.Start)
		if a.Stop >= 0 {
			fmt.Fprintf(w, "stop: %d (%s)\n", sum.Stop, a.StopCodon)
		} else {
			fmt.Fprintln(w, "stop: not found")
		}
		fmt.Fprintf(w, "translation: %s\n", sum.Translation)
		fmt.Fprintf(w, "protein length: %d\n", sum.ProteinLength)
	}
	return res, nil
}

func runMutate(w io.Writer, seqs bio.Sequences, kind string, pos int, from, to string) ([]MutateSummary, error) {
	res := make([]MutateSummary, 0, len(seqs))
	for _, seq := range seqs {
		sum := MutateSummary{Name: seq.Name, Kind: kind}
		switch kind {
		case "point":
			m := mutation.Mutation{Position: pos, Original: from, Replacement: to}
			sum.Mutation = m.String()
			sum.Result = mutation.Analyze(seq.Sequence, m)
		case "insertion":
			if len(to) != 1 {
				return nil, errors.New("insertion requires a single base (--to)")
			}
			sum.Mutation = fmt.Sprintf("ins%d%s", pos, to)
			sum.Result = mutation.AnalyzeEdit(seq.Sequence, mutation.Edit{Kind: mutation.Insertion, Position: pos - 1, Base: to[0]})
		case "deletion":
			sum.Mutation = fmt.Sprintf("del%d", pos)
			sum.Result = mutation.AnalyzeEdit(seq.Sequence, mutation.Edit{Kind: mutation.Deletion, Position: pos - 1})
		default:
			return nil, fmt.Errorf("unknown mutation kind: %s", kind)
		}
		res = append(res, sum)

		r := sum.Result
		fmt.Fprintf(w, ">%s %s\n", seq.Name, sum.Mutation)
		if !r.IsValid {
			fmt.Fprintf(w, "%s: %s\n", r.Effect, r.Error)
			continue
		}
		fmt.Fprintln(w, bio.FormatWithNumbers(r.MutatedSequence))
		fmt.Fprintf(w, "protein length: %d -> %d, %s\n",
			r.OriginalProteinLength, r.MutatedProteinLength, r.Effect)
	}
	return res, nil
}

func runDigest(w io.Writer, seqs bio.Sequences, name string) ([]DigestSummary, error) {
	e, ok := restriction.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown enzyme: %s", name)
	}
	res := make([]DigestSummary, 0, len(seqs))
	for _, seq := range seqs {
		s, err := bio.Validate(seq.Sequence)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", seq.Name, err)
		}
		sites := restriction.Sites(s, e.Site())
		sum := DigestSummary{
			Name:        seq.Name,
			Enzyme:      e.Name,
			Recognition: e.Recognition,
			Sites:       make([]int, len(sites)),
			Count:       len(sites),
			Fragments:   restriction.EstimateFragmentsFor(s, e.Site()),
			Lengths:     restriction.Digest(s, e),
		}
		for i, p := range sites {
			sum.Sites[i] = p + 1
		}
		res = append(res, sum)

		fmt.Fprintf(w, ">%s %s\n", seq.Name, e)
		fmt.Fprintf(w, "sites: %d %v\n", sum.Count, sum.Sites)
		fmt.Fprintf(w, "fragments: %d %v\n", sum.Fragments, sum.Lengths)
	}
	return res, nil
}

func runPrimers(w io.Writer, seqs bio.Sequences, detailed bool, s primer.Settings) ([]PrimerSummary, error) {
	res := make([]PrimerSummary, 0, len(seqs))
	for _, seq := range seqs {
		sum := PrimerSummary{Name: seq.Name}
		fmt.Fprintf(w, ">%s\n", seq.Name)
		if !detailed {
			pair, err := primer.DesignSimple(seq.Sequence)
			if err != nil {
				return nil, fmt.Errorf("sequence %q: %w", seq.Name, err)
			}
			sum.Simple = &pair
			fmt.Fprintf(w, "forward: %s\n", pair.Forward)
			fmt.Fprintf(w, "reverse: %s\n", pair.Reverse)
			res = append(res, sum)
			continue
		}

		d, err := primer.DesignDetailed(seq.Sequence, s)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", seq.Name, err)
		}
		sum.Detailed = d
		res = append(res, sum)
		for _, step := range d.Steps {
			fmt.Fprintf(w, "%d. %s\n", step.Number, step.Title)
			fmt.Fprintf(w, "   %s\n", step.Description)
			if step.Sequence != "" {
				fmt.Fprintf(w, "   %s\n", step.Sequence)
			}
			if step.Result != "" {
				fmt.Fprintf(w, "   %s\n", step.Result)
			}
			for _, line := range step.Details {
				fmt.Fprintf(w, "   - %s\n", line)
			}
		}
		fmt.Fprintf(w, "forward: %v\n", d.Forward)
		fmt.Fprintf(w, "reverse: %v\n", d.Reverse)
		fmt.Fprintf(w, "amplicon: %d bp, annealing: %.1f°C\n", d.AmplificationLength, d.AnnealingTemp)
		for _, r := range d.Recommendations {
			fmt.Fprintf(w, "%s: %s\n", r.Kind, r.Message)
		}
	}
	return res, nil
}

// upgmaInput lists the possible UPGMA input files, only one should be
// set.
type upgmaInput struct {
	Fasta, Matrix, Phylip string
	Lenient               bool
}

// read returns the taxa and their distances.
func (in upgmaInput) read() ([]dist.Taxon, *dist.Matrix, error) {
	n := 0
	for _, fn := range []string{in.Fasta, in.Matrix, in.Phylip} {
		if fn != "" {
			n++
		}
	}
	if n != 1 {
		return nil, nil, errors.New("exactly one of --fasta, --matrix or --phylip is required")
	}
	opt := dist.Options{Lenient: in.Lenient}
	if opt.Lenient {
		log.Warning("Lenient mode: missing distances are treated as zero")
	}

	switch {
	case in.Matrix != "":
		f := osUtil.Open(in.Matrix)
		defer simpleUtil.DeferClose(f)
		m, taxa, err := dist.ReadJSON(f, opt)
		return taxa, m, err
	case in.Phylip != "":
		f := osUtil.Open(in.Phylip)
		defer simpleUtil.DeferClose(f)
		m, err := dist.ReadPhylip(f, opt)
		if err != nil {
			return nil, nil, err
		}
		return idTaxa(m), m, nil
	}
	seqs, err := readInput("", in.Fasta)
	if err != nil {
		return nil, nil, err
	}
	m, err := dist.FromSequences(seqs)
	if err != nil {
		return nil, nil, err
	}
	return idTaxa(m), m, nil
}

func idTaxa(m *dist.Matrix) []dist.Taxon {
	ids := m.IDs()
	taxa := make([]dist.Taxon, len(ids))
	for i, id := range ids {
		taxa[i] = dist.Taxon{ID: id, Name: id}
	}
	return taxa
}

func runUPGMA(w io.Writer, in upgmaInput, treeFn, plotFn string, cfg config.UPGMAConfig) (*UPGMASummary, error) {
	taxa, m, err := in.read()
	if err != nil {
		return nil, err
	}
	log.Infof("Read %d taxa", len(taxa))
	res, err := upgma.Build(taxa, m)
	if err != nil {
		return nil, err
	}
	sum := &UPGMASummary{
		Taxa:   taxa,
		Matrix: m,
		Root:   res.Root,
		Steps:  res.Steps,
	}
	if res.Root == nil {
		fmt.Fprintln(w, "empty tree")
		return sum, nil
	}
	sum.Tree = res.Root.Newick()

	fmt.Fprintln(w, m)
	for _, step := range res.Steps {
		fmt.Fprintf(w, "\nStep %d: %s, height %g\n", step.Number, step.Description, step.Distance/2)
		fmt.Fprintln(w, step.After)
	}
	fmt.Fprintf(w, "\n%s\n", res.Root.Name)
	fmt.Fprintln(w, sum.Tree)

	if treeFn != "" {
		f := osUtil.Create(treeFn)
		defer simpleUtil.DeferClose(f)
		if _, err := io.WriteString(f, sum.Tree+"\n"); err != nil {
			return nil, err
		}
	}
	if plotFn != "" {
		width := vg.Length(cfg.Width) * vg.Inch
		height := vg.Length(cfg.Height) * vg.Inch
		if err := dendrogram.Save(res.Root, width, height, plotFn); err != nil {
			return nil, fmt.Errorf("error drawing dendrogram: %w", err)
		}
		log.Infof("Dendrogram saved to %s", plotFn)
	}
	return sum, nil
}

// runDraw reads a Newick tree and draws it as a dendrogram.
func runDraw(w io.Writer, treeFn, plotFn string, cfg config.UPGMAConfig) (*DrawSummary, error) {
	f := osUtil.Open(treeFn)
	defer simpleUtil.DeferClose(f)
	t, err := tree.ParseNewick(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", treeFn, err)
	}
	root, err := upgma.FromTree(t)
	if err != nil {
		return nil, err
	}
	sum := &DrawSummary{
		Tree:    t.String(),
		Root:    root,
		NLeaves: t.NLeaves(),
	}
	fmt.Fprintln(w, root.Name)
	fmt.Fprintln(w, sum.Tree)

	width := vg.Length(cfg.Width) * vg.Inch
	height := vg.Length(cfg.Height) * vg.Inch
	if err := dendrogram.Save(root, width, height, plotFn); err != nil {
		return nil, fmt.Errorf("error drawing dendrogram: %w", err)
	}
	log.Infof("Dendrogram of %d leaves saved to %s", sum.NLeaves, plotFn)
	return sum, nil
}

func runEnzymes(w io.Writer) []restriction.Enzyme {
	enzymes := restriction.Enzymes()
	for _, e := range enzymes {
		fmt.Fprintf(w, "%-8s %s\n", e.Name, e.Recognition)
	}
	return enzymes
}
