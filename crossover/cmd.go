package crossover

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/xopen"

	"github.com/ariadlab/pgta/llr"
)

var cli = struct {
	Chrom     string  `arg:"-c,required" help:"chromosome name (hg38) used to place windows into bins"`
	Bins      int     `arg:"-b" help:"number of equal-length bins along the chromosome"`
	Lookahead int     `arg:"-l" help:"points past a candidate before confirmation"`
	ZScore    float64 `arg:"-z" help:"required confirmation significance in standard deviations"`
	Smooth    int     `arg:"-s" help:"centered running-median window (0 disables)"`
	Robust    bool    `arg:"-r" help:"use median-of-medians binning instead of pooled means"`
	LLRs      string  `arg:"positional,required" help:"TSV of start end llr1 llr2 ... per genomic window"`
}{Bins: 50, Lookahead: 5, ZScore: 3}

func pcheck(e error) {
	if e != nil {
		panic(e)
	}
}

// readWindows parses a per-window bootstrap LLR table: start, end, then one
// column per replicate.
func readWindows(path string) ([]llr.Window, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var windows []llr.Window
	for {
		line, err := fh.ReadString('\n')
		if line == "" && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		toks := strings.Fields(strings.TrimSpace(line))
		if len(toks) == 0 {
			continue
		}
		if toks[0] == "start" { // header
			continue
		}
		if len(toks) < 4 {
			return nil, fmt.Errorf("crossover: window row needs start, end and 2+ replicates: %q", line)
		}
		start, serr := strconv.Atoi(toks[0])
		end, eerr := strconv.Atoi(toks[1])
		if serr != nil || eerr != nil {
			return nil, fmt.Errorf("crossover: bad window bounds %q %q", toks[0], toks[1])
		}
		samples := make([]float64, len(toks)-2)
		for i, t := range toks[2:] {
			v, perr := strconv.ParseFloat(t, 64)
			if perr != nil {
				return nil, fmt.Errorf("crossover: bad replicate value %q", t)
			}
			samples[i] = v
		}
		windows = append(windows, llr.Window{Start: start, End: end, Samples: samples})
		if err == io.EOF {
			break
		}
	}
	return windows, nil
}

// Main is called from the dispatcher
func Main() {
	arg.MustParse(&cli)

	windows, err := readWindows(cli.LLRs)
	pcheck(err)
	length, err := llr.ChromLength(cli.Chrom)
	pcheck(err)

	mode := llr.MeanOfMeans
	if cli.Robust {
		mode = llr.MedianOfMedians
	}
	bins, err := llr.BinWindows(windows, length, cli.Bins, mode)
	pcheck(err)

	var series []Point
	for _, b := range bins {
		if !b.OK {
			continue
		}
		series = append(series, Point{Pos: b.Mid(), Mean: b.Mean, Var: b.Std * b.Std})
	}
	d := Detector{Lookahead: cli.Lookahead, ZScore: cli.ZScore, Smooth: cli.Smooth}
	found := d.Detect(Accumulate(series))

	positions := make([]float64, 0, len(found))
	for pos := range found {
		positions = append(positions, pos)
	}
	sort.Float64s(positions)

	fmt.Fprintln(os.Stdout, "fraction\tposition\tscore")
	for _, pos := range positions {
		fmt.Fprintf(os.Stdout, "%.6f\t%d\t%.4f\n", pos, int(pos*float64(length)), found[pos])
	}
	fmt.Fprintf(os.Stderr, "%d windows, %d bins, %d crossovers\n", len(windows), cli.Bins, len(found))
}
