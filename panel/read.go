package panel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/willf/bitset"
)

// ReadLegend reads an IMPUTE2-style legend file (plain or gzipped) with rows
// of "id position ref alt". A chromosome prefix is taken from the id when it
// is of the form "chr:...", otherwise the id is used as-is.
func ReadLegend(path string) ([]Legend, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var leg []Legend
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
		if len(toks) < 4 {
			return nil, fmt.Errorf("panel: legend row has %d columns, want 4: %q", len(toks), line)
		}
		if toks[1] == "position" { // header
			continue
		}
		pos, perr := strconv.Atoi(toks[1])
		if perr != nil {
			return nil, fmt.Errorf("panel: bad legend position %q", toks[1])
		}
		chrom := toks[0]
		if i := strings.IndexByte(chrom, ':'); i > 0 {
			chrom = chrom[:i]
		}
		leg = append(leg, Legend{Chrom: chrom, Pos: pos, Ref: toks[2], Alt: toks[3]})
		if err == io.EOF {
			break
		}
	}
	return leg, nil
}

// ReadHaplotypes reads an IMPUTE2-style haplotype file: one row per legend
// SNP, one space-separated 0/1 column per reference haplotype. It returns the
// rows as bitsets over the haplotype indices along with the haplotype count.
func ReadHaplotypes(path string) ([]*bitset.BitSet, uint, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, 0, err
	}
	defer fh.Close()

	var rows []*bitset.BitSet
	var n uint
	for {
		line, err := fh.ReadString('\n')
		if line == "" && err == io.EOF {
			break
		}
		if err != nil && err != io.EOF {
			return nil, 0, err
		}
		toks := strings.Fields(strings.TrimSpace(line))
		if len(toks) == 0 {
			continue
		}
		if n == 0 {
			n = uint(len(toks))
		} else if uint(len(toks)) != n {
			return nil, 0, fmt.Errorf("panel: haplotype row %d has %d columns, want %d", len(rows), len(toks), n)
		}
		row := bitset.New(n)
		for j, t := range toks {
			switch t {
			case "1":
				row.Set(uint(j))
			case "0":
			default:
				return nil, 0, fmt.Errorf("panel: haplotype row %d has non-binary value %q", len(rows), t)
			}
		}
		rows = append(rows, row)
		if err == io.EOF {
			break
		}
	}
	return rows, n, nil
}

// ReadObservations reads a tab-separated observations table with rows of
// "pos read_id base".
func ReadObservations(path string) ([]Observation, error) {
	fh, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var obs []Observation
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
		if len(toks) < 3 {
			return nil, fmt.Errorf("panel: observation row has %d columns, want 3: %q", len(toks), line)
		}
		if toks[0] == "pos" { // header
			continue
		}
		pos, perr := strconv.Atoi(toks[0])
		if perr != nil {
			return nil, fmt.Errorf("panel: bad observation position %q", toks[0])
		}
		obs = append(obs, Observation{Pos: pos, ReadID: toks[1], Base: toks[2]})
		if err == io.EOF {
			break
		}
	}
	return obs, nil
}
