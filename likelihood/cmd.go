package likelihood

import (
	"fmt"
	"os"

	arg "github.com/alexflint/go-arg"

	"github.com/ariadlab/pgta/llr"
	"github.com/ariadlab/pgta/models"
	"github.com/ariadlab/pgta/panel"
)

var cli = struct {
	MaxReads int    `arg:"-m" help:"cap on the number of reads used from the window"`
	Obs      string `arg:"positional,required" help:"observations table (pos read_id base)"`
	Legend   string `arg:"positional,required" help:"IMPUTE2-style legend file"`
	Hap      string `arg:"positional,required" help:"IMPUTE2-style haplotypes file"`
}{MaxReads: 12}

func pcheck(e error) {
	if e != nil {
		panic(e)
	}
}

// groupByRead collects each read's alleles, in read first-appearance order.
func groupByRead(obs []panel.Observation) []Haplotype {
	byRead := make(map[string]int)
	var reads []Haplotype
	for _, o := range obs {
		i, ok := byRead[o.ReadID]
		if !ok {
			i = len(reads)
			byRead[o.ReadID] = i
			reads = append(reads, nil)
		}
		reads[i] = append(reads[i], panel.Allele{Pos: o.Pos, Base: o.Base})
	}
	return reads
}

// Main is called from the dispatcher
func Main() {
	arg.MustParse(&cli)

	obs, err := panel.ReadObservations(cli.Obs)
	pcheck(err)
	leg, err := panel.ReadLegend(cli.Legend)
	pcheck(err)
	hap, n, err := panel.ReadHaplotypes(cli.Hap)
	pcheck(err)

	ix, err := panel.Build(obs, leg, hap, n)
	pcheck(err)
	fmt.Fprintf(os.Stderr, "%.2f%% of the observed alleles matched the reference panel\n", 100*ix.MatchedFraction())

	reads := groupByRead(obs)
	items := make([]Item, 0, len(reads))
	for _, r := range reads {
		if len(items) == cli.MaxReads {
			break
		}
		// drop alleles that matched neither ref nor alt; they are not indexed.
		kept := r[:0]
		for _, a := range r {
			if _, ok := ix.Lookup(a); ok {
				kept = append(kept, a)
			}
		}
		if len(kept) > 0 {
			items = append(items, kept)
		}
	}
	if len(items) < 2 {
		fmt.Fprintln(os.Stderr, "need at least 2 reads with panel-matched alleles")
		os.Exit(1)
	}

	calc := New(ix, models.NewStore())
	like, err := calc.Likelihoods(items...)
	pcheck(err)

	fmt.Fprintln(os.Stdout, "reads\tmonosomy\tdisomy\tSPH\tBPH\tLLR_BPH_SPH\tLLR_disomy_monosomy")
	fmt.Fprintf(os.Stdout, "%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.4f\t%.4f\n",
		len(items), like.Monosomy, like.Disomy, like.SPH, like.BPH,
		llr.LLR(like.BPH, like.SPH), llr.LLR(like.Disomy, like.Monosomy))
}
