package main

import (
	"bitbucket.org/Davydov/genelab/dist"
	"bitbucket.org/Davydov/genelab/mutation"
	"bitbucket.org/Davydov/genelab/primer"
	"bitbucket.org/Davydov/genelab/upgma"
)

// CallSummary is storing genelab run summary information.
type CallSummary struct {
	// Version stores genelab version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Command is the subcommand name.
	Command string `json:"command"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
	// Result is the command specific summary.
	Result interface{} `json:"result"`
}

// TranslateSummary describes the reading frame of one sequence.
type TranslateSummary struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	// Start and Stop are 1-based, zero if not found.
	Start         int    `json:"start"`
	Stop          int    `json:"stop"`
	StopCodon     string `json:"stopCodon,omitempty"`
	Translation   string `json:"translation"`
	ProteinLength int    `json:"proteinLength"`
}

// MutateSummary is the effect of a mutation on one sequence.
type MutateSummary struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Mutation string          `json:"mutation"`
	Result   mutation.Result `json:"result"`
}

// DigestSummary is the restriction analysis of one sequence.
type DigestSummary struct {
	Name        string `json:"name"`
	Enzyme      string `json:"enzyme"`
	Recognition string `json:"recognition"`
	// Sites are 1-based positions of the recognition sites.
	Sites     []int `json:"sites"`
	Count     int   `json:"count"`
	Fragments int   `json:"fragments"`
	Lengths   []int `json:"lengths"`
}

// PrimerSummary holds simple or detailed primer design of one
// template.
type PrimerSummary struct {
	Name     string           `json:"name"`
	Simple   *primer.Pair     `json:"simple,omitempty"`
	Detailed *primer.Detailed `json:"detailed,omitempty"`
}

// UPGMASummary is the tree and the merge history.
type UPGMASummary struct {
	Taxa   []dist.Taxon   `json:"taxa"`
	Matrix *dist.Matrix   `json:"matrix"`
	Tree   string         `json:"tree"`
	Root   *upgma.Cluster `json:"root"`
	Steps  []upgma.Step   `json:"steps"`
}

// DrawSummary is a tree read from a file.
type DrawSummary struct {
	Tree    string         `json:"tree"`
	NLeaves int            `json:"n_leaves"`
	Root    *upgma.Cluster `json:"root"`
}
