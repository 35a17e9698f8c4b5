package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	arg "github.com/alexflint/go-arg"
)

var cli = struct {
	Scenario string `arg:"positional,required" help:"one of monosomy/disomy/SPH/BPH"`
	Reads    int    `arg:"positional,required" help:"number of reads in the genomic window"`
}{}

func pcheck(e error) {
	if e != nil {
		panic(e)
	}
}

// groupString renders a read-index bitmask as comma-separated indices.
func groupString(g uint) string {
	var idx []string
	for i := uint(0); g != 0; i++ {
		if g&1 == 1 {
			idx = append(idx, strconv.Itoa(int(i)))
		}
		g >>= 1
	}
	return strings.Join(idx, ",")
}

// Main is called from the dispatcher
func Main() {
	arg.MustParse(&cli)
	m, err := NewStore().Get(Scenario(cli.Scenario), cli.Reads)
	pcheck(err)

	fmt.Fprintln(os.Stdout, "partition\tweight")
	for _, p := range m {
		groups := make([]string, len(p.Groups))
		for i, g := range p.Groups {
			groups[i] = groupString(g)
		}
		fmt.Fprintf(os.Stdout, "%s\t%d\n", strings.Join(groups, "|"), p.Weight)
	}
	fmt.Fprintf(os.Stderr, "%d partitions, total weight %d\n", len(m), m.TotalWeight())
}
