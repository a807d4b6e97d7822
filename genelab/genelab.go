/*

Genelab is a command line front end to the genelab teaching library.
It translates open reading frames, simulates point mutations, counts
restriction sites, designs PCR primers and builds UPGMA trees.

Translate a sequence and show the annotated reading frame:

	genelab translate ATGAAATAAATGCCC

Design primers explaining every step:

	genelab primers --detailed --fasta gene.fst

Build a tree from a distance matrix and draw it:

	genelab upgma --matrix distances.json --newick tree.nwk --plot tree.png

A stored tree can be drawn again:

	genelab draw --newick tree.nwk --plot tree.svg

Results can be stored in a database and printed later:

	genelab --db reports.db --key run1 digest --enzyme BamHI --fasta gene.fst
	genelab --db reports.db show run1

To see all the options run:

	genelab --help

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/genelab/config"
	"bitbucket.org/Davydov/genelab/store"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("genelab")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules are the loggers configured by --loglevel.
var modules = []string{"genelab", "config", "store", "mutation", "primer", "upgma", "dendrogram"}

// command-line options
var (
	// application
	app = kingpin.New("genelab", "genetics education toolkit").Version(version)

	// technical
	configF  = app.Flag("config", "read settings from a file (yaml, json or toml)").ExistingFile()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
	dbF   = app.Flag("db", "store the result in a database").String()
	key   = app.Flag("key", "database key, command name by default").String()

	// translate
	translateCmd   = app.Command("translate", "find and translate the open reading frame")
	translateSeq   = translateCmd.Arg("sequence", "DNA sequence").String()
	translateFasta = translateCmd.Flag("fasta", "read sequences from a fasta file").ExistingFile()
	markup         = translateCmd.Flag("markup", "annotation markup (plain, ansi or html), from settings by default").String()

	// mutate
	mutateCmd   = app.Command("mutate", "simulate a mutation and report its effect")
	mutateSeq   = mutateCmd.Arg("sequence", "DNA sequence").String()
	mutateFasta = mutateCmd.Flag("fasta", "read sequences from a fasta file").ExistingFile()
	position    = mutateCmd.Flag("pos", "1-based position").Required().Int()
	original    = mutateCmd.Flag("from", "original base (point mutation)").String()
	replacement = mutateCmd.Flag("to", "new base (point mutation and insertion)").String()
	kind        = mutateCmd.Flag("kind", "mutation kind (point, insertion or deletion)").Default("point").Enum("point", "insertion", "deletion")

	// digest
	digestCmd   = app.Command("digest", "count restriction sites and estimate fragments")
	digestSeq   = digestCmd.Arg("sequence", "DNA sequence").String()
	digestFasta = digestCmd.Flag("fasta", "read sequences from a fasta file").ExistingFile()
	enzyme      = digestCmd.Flag("enzyme", "enzyme name, from settings by default").String()

	// primers
	primersCmd   = app.Command("primers", "design PCR primers")
	primersSeq   = primersCmd.Arg("sequence", "DNA template").String()
	primersFasta = primersCmd.Flag("fasta", "read templates from a fasta file").ExistingFile()
	detailed     = primersCmd.Flag("detailed", "select primers by melting temperature and explain every step").Bool()

	// upgma
	upgmaCmd    = app.Command("upgma", "build a UPGMA tree")
	upgmaFasta  = upgmaCmd.Flag("fasta", "aligned sequences, Hamming distances are used").ExistingFile()
	upgmaMatrix = upgmaCmd.Flag("matrix", "distance matrix in json format").ExistingFile()
	upgmaPhylip = upgmaCmd.Flag("phylip", "distance matrix in phylip format").ExistingFile()
	lenient     = upgmaCmd.Flag("lenient", "treat missing distances as zero").Bool()
	outTreeF    = upgmaCmd.Flag("newick", "write tree to a file").String()
	plotF       = upgmaCmd.Flag("plot", "draw dendrogram to a file (png, svg, pdf)").String()

	// draw
	drawCmd   = app.Command("draw", "draw a tree in the newick format")
	drawTreeF = drawCmd.Flag("newick", "tree file").Required().ExistingFile()
	drawPlotF = drawCmd.Flag("plot", "output file (png, svg, pdf)").Required().String()

	// enzymes
	enzymesCmd = app.Command("enzymes", "list known restriction enzymes")

	// show
	showCmd = app.Command("show", "print a stored report")
	showKey = showCmd.Arg("key", "report key, list all the keys if not set").String()
)

// setupLogging configures the backend and the levels of all modules.
func setupLogging() (closer func()) {
	logging.SetFormatter(formatter)

	closer = func() {}
	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		closer = func() { simpleUtil.DeferClose(f) }
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, module := range modules {
		logging.SetLevel(level, module)
	}
	return
}

func run(command string, cfg *config.Config) (interface{}, error) {
	switch command {
	case translateCmd.FullCommand():
		seqs, err := readInput(*translateSeq, *translateFasta)
		if err != nil {
			return nil, err
		}
		name := *markup
		if name == "" {
			name = cfg.Format.Markup
		}
		return runTranslate(os.Stdout, seqs, name)
	case mutateCmd.FullCommand():
		seqs, err := readInput(*mutateSeq, *mutateFasta)
		if err != nil {
			return nil, err
		}
		return runMutate(os.Stdout, seqs, *kind, *position, *original, *replacement)
	case digestCmd.FullCommand():
		seqs, err := readInput(*digestSeq, *digestFasta)
		if err != nil {
			return nil, err
		}
		name := *enzyme
		if name == "" {
			name = cfg.Digest.Enzyme
		}
		return runDigest(os.Stdout, seqs, name)
	case primersCmd.FullCommand():
		seqs, err := readInput(*primersSeq, *primersFasta)
		if err != nil {
			return nil, err
		}
		return runPrimers(os.Stdout, seqs, *detailed, cfg.Primer)
	case upgmaCmd.FullCommand():
		in := upgmaInput{
			Fasta:   *upgmaFasta,
			Matrix:  *upgmaMatrix,
			Phylip:  *upgmaPhylip,
			Lenient: *lenient || cfg.UPGMA.Lenient,
		}
		return runUPGMA(os.Stdout, in, *outTreeF, *plotF, cfg.UPGMA)
	case drawCmd.FullCommand():
		return runDraw(os.Stdout, *drawTreeF, *drawPlotF, cfg.UPGMA)
	case enzymesCmd.FullCommand():
		return runEnzymes(os.Stdout), nil
	}
	return nil, fmt.Errorf("unknown command: %s", command)
}

// show prints stored reports or their keys.
func show() {
	if *dbF == "" {
		log.Fatal("Database is required (--db)")
	}
	s, err := store.Open(*dbF)
	if err != nil {
		log.Fatal("Error opening database:", err)
	}
	defer s.Close()

	if *showKey == "" {
		keys, err := s.Keys()
		if err != nil {
			log.Fatal(err)
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return
	}
	rep, err := s.Load(*showKey)
	if err != nil {
		log.Fatal(err)
	}
	j, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(j))
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	closeLog := setupLogging()
	defer closeLog()

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if command == showCmd.FullCommand() {
		show()
		return
	}

	cfg, err := config.New(*configF)
	if err != nil {
		log.Fatal(err)
	}

	startTime := time.Now()
	result, err := run(command, cfg)
	if err != nil {
		log.Fatal(err)
	}
	deltaT := time.Since(startTime)
	log.Infof("Running time: %v", deltaT)

	summary := &CallSummary{
		Version:     version,
		CommandLine: os.Args,
		Command:     command,
		Time:        deltaT.Seconds(),
		Result:      result,
	}

	if *dbF != "" {
		k := *key
		if k == "" {
			k = command
		}
		s, err := store.Open(*dbF)
		if err != nil {
			log.Error("Error opening database:", err)
		} else {
			if err := s.Save(k, command, summary); err != nil {
				log.Error("Error saving report:", err)
			}
			s.Close()
		}
	}

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f := osUtil.Create(*jsonF)
			defer simpleUtil.DeferClose(f)
			_, err = f.Write(j)
			simpleUtil.CheckErr(err)
		}
	}
}
