// Package panel builds an index over a population reference panel: for each
// observed allele, the set of reference haplotypes consistent with it.
// Haplotype sets are fixed-width bitsets so that joint counts downstream are
// intersections and popcounts.
package panel

import (
	"fmt"
	"sort"

	"github.com/willf/bitset"
)

// Legend is one reference-panel SNP, ordered by position within a chromosome.
type Legend struct {
	Chrom string
	Pos   int
	Ref   string
	Alt   string
}

// Observation is one observed base from a sequencing read.
type Observation struct {
	Pos    int
	ReadID string
	Base   string
}

// Allele is a single base at a chromosome position.
type Allele struct {
	Pos  int
	Base string
}

// Index maps observed alleles to the reference haplotypes that carry them.
// A haplotype row stores carriers of the alt allele; ref-matching observations
// are stored as the N-bit complement, so every haplotype is counted in exactly
// one of the two sets per position.
type Index struct {
	sets map[Allele]*bitset.BitSet

	// NHaplotypes is the number of haplotypes in the reference panel.
	NHaplotypes uint
	// Mismatches counts observations whose base matched neither ref nor alt.
	// These are expected from sequencing error and are dropped, not fatal.
	Mismatches   int
	Observations int
}

// Lookup returns the haplotype set for an observed allele.
func (ix *Index) Lookup(a Allele) (*bitset.BitSet, bool) {
	b, ok := ix.sets[a]
	return b, ok
}

// Alleles returns the indexed alleles sorted by position then base.
func (ix *Index) Alleles() []Allele {
	out := make([]Allele, 0, len(ix.sets))
	for a := range ix.sets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos != out[j].Pos {
			return out[i].Pos < out[j].Pos
		}
		return out[i].Base < out[j].Base
	})
	return out
}

// MatchedFraction reports the fraction of observations whose base matched a
// known allele. Diagnostic only.
func (ix *Index) MatchedFraction() float64 {
	if ix.Observations == 0 {
		return 0
	}
	return 1 - float64(ix.Mismatches)/float64(ix.Observations)
}

// Build indexes the observations against the legend and haplotype tables.
// hap is aligned 1:1 with leg and each row has nHaplotypes bits, with a set
// bit meaning that haplotype carries the alt allele. An observation whose
// position has no legend row is a fatal input error.
func Build(obs []Observation, leg []Legend, hap []*bitset.BitSet, nHaplotypes uint) (*Index, error) {
	if len(leg) != len(hap) {
		return nil, fmt.Errorf("panel: legend has %d rows but haplotype table has %d", len(leg), len(hap))
	}
	ix := &Index{
		sets:         make(map[Allele]*bitset.BitSet, len(obs)),
		NHaplotypes:  nHaplotypes,
		Observations: len(obs),
	}
	for _, o := range obs {
		i := sort.Search(len(leg), func(i int) bool { return leg[i].Pos >= o.Pos })
		if i == len(leg) || leg[i].Pos != o.Pos {
			return nil, fmt.Errorf("panel: observation at position %d has no legend row", o.Pos)
		}
		switch o.Base {
		case leg[i].Alt:
			ix.sets[Allele{o.Pos, o.Base}] = hap[i]
		case leg[i].Ref:
			ix.sets[Allele{o.Pos, o.Base}] = hap[i].Complement()
		default:
			ix.Mismatches++
		}
	}
	return ix, nil
}
