// Package likelihood computes, for the reads of one genomic window, the
// relative likelihoods of the observed alleles under monosomy, disomy and the
// two trisomy mechanisms (SPH and BPH). Joint allele frequencies come from a
// panel.Index; the combinatorial weighting comes from a models.Store.
package likelihood

import (
	"fmt"
	"math"

	"github.com/willf/bitset"

	"github.com/ariadlab/pgta/models"
	"github.com/ariadlab/pgta/panel"
)

// Item is one unit of evidence passed to the frequency and likelihood
// queries: either a single observed allele or a group of alleles observed on
// one read, which is intersected down to the haplotypes consistent with all
// of them.
type Item interface {
	resolve(ix *panel.Index) (*bitset.BitSet, error)
}

// Allele makes a single observed allele usable as an Item.
type Allele panel.Allele

func (a Allele) resolve(ix *panel.Index) (*bitset.BitSet, error) {
	b, ok := ix.Lookup(panel.Allele(a))
	if !ok {
		return nil, fmt.Errorf("likelihood: allele %d%s is not in the panel index", a.Pos, a.Base)
	}
	return b, nil
}

// Haplotype is a group of alleles observed on one read, treated as evidence
// for a single underlying haplotype.
type Haplotype []panel.Allele

func (h Haplotype) resolve(ix *panel.Index) (*bitset.BitSet, error) {
	if len(h) == 0 {
		return nil, fmt.Errorf("likelihood: empty haplotype group")
	}
	b, err := Allele(h[0]).resolve(ix)
	if err != nil {
		return nil, err
	}
	for _, a := range h[1:] {
		c, err := Allele(a).resolve(ix)
		if err != nil {
			return nil, err
		}
		b = b.Intersection(c)
	}
	return b, nil
}

// Likelihood holds the four scenario likelihoods for one window. The values
// share a normalization basis, so any pair can be compared as a ratio.
type Likelihood struct {
	Monosomy float64
	Disomy   float64
	SPH      float64
	BPH      float64
}

// Calculator answers frequency and likelihood queries against one panel
// index. It is synchronous and deterministic; concurrent callers should each
// use their own index and may share a populated model store.
type Calculator struct {
	ix    *panel.Index
	store *models.Store
}

// New returns a Calculator over the given panel index and model store.
func New(ix *panel.Index, store *models.Store) *Calculator {
	return &Calculator{ix: ix, store: store}
}

// JointFrequencies returns, for every non-empty subset of the items, the
// number of reference haplotypes consistent with all subset members. Each
// item takes the bit position of its argument index; a subset is keyed by the
// OR of its members' bits, so keys do not depend on argument order. With
// normalize, counts are divided by the panel's haplotype count.
//
// Subset intersections are built incrementally from the next-smaller subset
// rather than recomputed from the full item sets.
func (c *Calculator) JointFrequencies(normalize bool, items ...Item) (map[uint]float64, error) {
	k := len(items)
	if k == 0 {
		return nil, fmt.Errorf("likelihood: no items given")
	}
	inters := make([]*bitset.BitSet, 1<<uint(k))
	for i, it := range items {
		b, err := it.resolve(c.ix)
		if err != nil {
			return nil, err
		}
		inters[1<<uint(i)] = b
	}
	n := float64(c.ix.NHaplotypes)
	result := make(map[uint]float64, 1<<uint(k)-1)
	for sub := uint(1); sub < 1<<uint(k); sub++ {
		if sub&(sub-1) != 0 {
			lo := sub & -sub
			inters[sub] = inters[sub&^lo].Intersection(inters[lo])
		}
		count := float64(inters[sub].Count())
		if normalize {
			count /= n
		}
		result[sub] = count
	}
	return result, nil
}

// Likelihoods computes the four scenario likelihoods for the given items
// using the generic model-driven path: for each scenario, sum over the
// model's partitions the weight times the product of each homolog group's
// joint frequency, and normalize by the scenario's total weight.
func (c *Calculator) Likelihoods(items ...Item) (Likelihood, error) {
	var out Likelihood
	F, err := c.JointFrequencies(false, items...)
	if err != nil {
		return out, err
	}
	n := float64(c.ix.NHaplotypes)
	for _, scenario := range models.Scenarios {
		m, err := c.store.Get(scenario, len(items))
		if err != nil {
			return out, err
		}
		var sum float64
		for _, p := range m {
			term := float64(p.Weight)
			for _, g := range p.Groups {
				term *= F[g] / n
			}
			sum += term
		}
		sum /= float64(m.TotalWeight())
		switch scenario {
		case models.Monosomy:
			out.Monosomy = sum
		case models.Disomy:
			out.Disomy = sum
		case models.SPH:
			out.SPH = sum
		case models.BPH:
			out.BPH = sum
		}
	}
	return out, nil
}

// Likelihoods2 is the closed form of Likelihoods for exactly two items.
func (c *Calculator) Likelihoods2(items ...Item) (Likelihood, error) {
	var out Likelihood
	if len(items) != 2 {
		return out, fmt.Errorf("likelihood: Likelihoods2 needs 2 items, got %d", len(items))
	}
	F, err := c.JointFrequencies(true, items...)
	if err != nil {
		return out, err
	}
	a, b, ab := F[1], F[2], F[3]
	out.Monosomy = ab
	out.Disomy = (ab + a*b) / 2
	out.SPH = (5*ab + 4*a*b) / 9
	out.BPH = (ab + 2*a*b) / 3
	return out, nil
}

// Likelihoods3 is the closed form of Likelihoods for exactly three items.
func (c *Calculator) Likelihoods3(items ...Item) (Likelihood, error) {
	var out Likelihood
	if len(items) != 3 {
		return out, fmt.Errorf("likelihood: Likelihoods3 needs 3 items, got %d", len(items))
	}
	F, err := c.JointFrequencies(true, items...)
	if err != nil {
		return out, err
	}
	a, b, cc := F[1], F[2], F[4]
	ab, ac, bc := F[3], F[5], F[6]
	abc := F[7]
	out.Monosomy = abc
	out.Disomy = (abc + ab*cc + ac*b + bc*a) / 4
	out.SPH = abc/3 + 2*(ab*cc+ac*b+bc*a)/9
	out.BPH = (abc + 2*(ab*cc+ac*b+bc*a+a*b*cc)) / 9
	return out, nil
}

// Likelihoods4 is the closed form of Likelihoods for exactly four items.
func (c *Calculator) Likelihoods4(items ...Item) (Likelihood, error) {
	var out Likelihood
	if len(items) != 4 {
		return out, fmt.Errorf("likelihood: Likelihoods4 needs 4 items, got %d", len(items))
	}
	F, err := c.JointFrequencies(true, items...)
	if err != nil {
		return out, err
	}
	a, b, cc, d := F[1], F[2], F[4], F[8]
	ab, ac, ad, bc, bd, cd := F[3], F[5], F[9], F[6], F[10], F[12]
	abc, abd, acd, bcd := F[7], F[11], F[13], F[14]
	abcd := F[15]
	out.Monosomy = abcd
	out.Disomy = (abcd + abc*d + bcd*a + acd*b + abd*cc + ab*cd + ad*bc + ac*bd) / 8
	out.SPH = (17*abcd + 10*(abc*d+bcd*a+acd*b+abd*cc) + 8*(ab*cd+ad*bc+ac*bd)) / 81
	out.BPH = (abcd + 2*(ab*cc*d+a*bd*cc+a*bc*d+ac*b*d+a*b*cd+ad*b*cc+abc*d+a*bcd+acd*b+abd*cc+ab*cd+ad*bc+ac*bd)) / 27
	return out, nil
}

// RelativeError returns |x-y| scaled by the larger magnitude, for comparing
// the generic and closed-form paths.
func RelativeError(x, y float64) float64 {
	if x == 0 && y == 0 {
		return 0
	}
	return math.Abs(x-y) / math.Max(math.Abs(x), math.Abs(y))
}
