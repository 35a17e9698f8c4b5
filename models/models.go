// Package models enumerates the homolog-assignment models that weight the
// joint allele frequencies under each ploidy scenario. A model for
// (scenario, reads) is a pure function of those two integers; a Store caches
// built models for reuse across genomic windows.
package models

import (
	"fmt"
)

// Scenario names a ploidy hypothesis. The tokens are fixed and case-exact.
type Scenario string

const (
	Monosomy Scenario = "monosomy"
	Disomy   Scenario = "disomy"
	// SPH (single parental homolog) is a trisomy with one homolog duplicated.
	SPH Scenario = "SPH"
	// BPH (both parental homologs) is a trisomy with three distinguishable
	// homolog copies.
	BPH Scenario = "BPH"
)

// Scenarios lists the supported scenarios in canonical order.
var Scenarios = []Scenario{Monosomy, Disomy, SPH, BPH}

// Degeneracies returns the homolog multiplicity pattern of the scenario:
// one entry per distinguishable homolog, valued by its copy number.
func (s Scenario) Degeneracies() ([]int, error) {
	switch s {
	case Monosomy:
		return []int{1}, nil
	case Disomy:
		return []int{1, 1}, nil
	case SPH:
		return []int{1, 2}, nil
	case BPH:
		return []int{1, 1, 1}, nil
	}
	return nil, fmt.Errorf("models: unknown scenario %q", string(s))
}

// Partition is one way of grouping reads by the homolog they originated from.
// Groups holds a bitmask of read indices per non-empty homolog group, ordered
// by each group's lowest read index. Weight counts the assignments that induce
// this grouping, each weighted by the product of the assigned degeneracies.
type Partition struct {
	Groups []uint
	Weight int
}

// Model holds every partition of a given read count under one scenario.
// The partitions are in first-enumeration order, which is deterministic.
type Model []Partition

// TotalWeight returns the sum of partition weights. It equals
// (sum of degeneracies)^reads exactly.
func (m Model) TotalWeight() int {
	t := 0
	for _, p := range m {
		t += p.Weight
	}
	return t
}

// Build enumerates every assignment of reads to homologs with non-zero
// degeneracy, groups the reads of each assignment into a partition and sums
// the degeneracy-product weights per canonical partition.
func Build(reads int, degeneracies []int) (Model, error) {
	if reads < 1 {
		return nil, fmt.Errorf("models: read count %d has no model", reads)
	}
	if len(degeneracies) == 0 {
		return nil, fmt.Errorf("models: empty degeneracy pattern")
	}

	nh := len(degeneracies)
	assign := make([]int, reads)
	labels := make([]int, nh)
	canon := make([]byte, reads)
	index := make(map[string]int)
	var m Model

	for {
		w := 1
		for _, h := range assign {
			w *= degeneracies[h]
		}
		// canonicalize by first occurrence of each homolog group.
		for h := range labels {
			labels[h] = -1
		}
		next := 0
		for i, h := range assign {
			if labels[h] < 0 {
				labels[h] = next
				next++
			}
			canon[i] = byte(labels[h])
		}
		key := string(canon)
		if at, ok := index[key]; ok {
			m[at].Weight += w
		} else {
			groups := make([]uint, next)
			for i, h := range assign {
				groups[labels[h]] |= 1 << uint(i)
			}
			index[key] = len(m)
			m = append(m, Partition{Groups: groups, Weight: w})
		}
		// next assignment, odometer style.
		i := reads - 1
		for ; i >= 0; i-- {
			assign[i]++
			if assign[i] < nh {
				break
			}
			assign[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return m, nil
}

// Store caches models keyed by (scenario, read count). Misses are built
// lazily; the build is deterministic, so redundant rebuilds are harmless.
type Store struct {
	models map[storeKey]Model
}

type storeKey struct {
	scenario Scenario
	reads    int
}

// NewStore returns an empty model store.
func NewStore() *Store {
	return &Store{models: make(map[storeKey]Model)}
}

// Get returns the model for (scenario, reads), building it on first use.
func (s *Store) Get(scenario Scenario, reads int) (Model, error) {
	k := storeKey{scenario, reads}
	if m, ok := s.models[k]; ok {
		return m, nil
	}
	degs, err := scenario.Degeneracies()
	if err != nil {
		return nil, err
	}
	m, err := Build(reads, degs)
	if err != nil {
		return nil, err
	}
	s.models[k] = m
	return m, nil
}
