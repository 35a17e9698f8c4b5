package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"github.com/ariadlab/pgta/crossover"
	"github.com/ariadlab/pgta/likelihood"
	"github.com/ariadlab/pgta/models"
)

const Version = "0.1.0"

type progPair struct {
	help string
	main func()
}

var progs = map[string]progPair{
	"likelihood": progPair{"scenario likelihoods for the reads of one genomic window", likelihood.Main},
	"models":     progPair{"print the partition weights for a (scenario, reads) model", models.Main},
	"crossovers": progPair{"bin per-window LLRs and detect crossover transitions", crossover.Main},
}

func printProgs() {

	var wtr io.Writer = os.Stdout

	fmt.Fprintf(wtr, "%s Version: %s\n\n", color.GreenString("pgta"), Version)
	var keys []string
	l := 5
	for k := range progs {
		keys = append(keys, k)
		if len(k) > l {
			l = len(k)
		}
	}
	fmtr := "%-" + strconv.Itoa(l) + "s : %s\n"
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(wtr, fmtr, k, progs[k].help)

	}
	os.Exit(1)

}

func main() {

	if len(os.Args) < 2 {
		printProgs()
	}
	var p progPair
	var ok bool
	if p, ok = progs[os.Args[1]]; !ok {
		printProgs()
	}
	// remove the prog name from the call
	os.Args = append(os.Args[:1], os.Args[2:]...)
	p.main()
}
