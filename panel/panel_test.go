package panel

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/willf/bitset"
)

func row(n uint, bits ...uint) *bitset.BitSet {
	b := bitset.New(n)
	for _, i := range bits {
		b.Set(i)
	}
	return b
}

func TestBuild(t *testing.T) {
	leg := []Legend{
		{"chr21", 100, "A", "G"},
		{"chr21", 200, "C", "T"},
	}
	hap := []*bitset.BitSet{
		row(8, 0, 1, 2),
		row(8, 5),
	}
	obs := []Observation{
		{100, "read1", "G"},
		{200, "read1", "C"},
		{200, "read2", "A"}, // neither ref nor alt
	}
	ix, err := Build(obs, leg, hap, 8)
	if err != nil {
		t.Fatal(err)
	}
	if ix.Mismatches != 1 {
		t.Errorf("mismatches: got %d, want 1", ix.Mismatches)
	}
	if got := ix.MatchedFraction(); got != 2.0/3.0 {
		t.Errorf("matched fraction: got %v", got)
	}

	alt, ok := ix.Lookup(Allele{100, "G"})
	if !ok || alt.Count() != 3 {
		t.Fatalf("alt allele: ok=%v set=%v", ok, alt)
	}
	// ref observations store the complement: every haplotype is in exactly
	// one of the two sets per position.
	ref, ok := ix.Lookup(Allele{200, "C"})
	if !ok || ref.Count() != 7 {
		t.Fatalf("ref allele: ok=%v count=%v", ok, ref.Count())
	}
	if ref.Test(5) || !ref.Test(0) {
		t.Error("complement kept the alt carrier or dropped a ref carrier")
	}
	if _, ok := ix.Lookup(Allele{200, "A"}); ok {
		t.Error("mismatched base should not be indexed")
	}
}

func TestBuildPositionMismatch(t *testing.T) {
	leg := []Legend{{"chr21", 100, "A", "G"}}
	hap := []*bitset.BitSet{row(4, 0)}
	if _, err := Build([]Observation{{150, "r", "G"}}, leg, hap, 4); err == nil {
		t.Fatal("expected a fatal error for an unmatched observation position")
	}
}

func TestBuildRaggedTables(t *testing.T) {
	leg := []Legend{{"chr21", 100, "A", "G"}}
	if _, err := Build(nil, leg, nil, 4); err == nil {
		t.Fatal("expected an error for misaligned legend/haplotype tables")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLegend(t *testing.T) {
	path := writeFile(t, "test.legend", "id position a0 a1\nchr21:100:A:G 100 A G\nchr21:200:C:T 200 C T\n")
	leg, err := ReadLegend(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Legend{
		{"chr21", 100, "A", "G"},
		{"chr21", 200, "C", "T"},
	}
	if !reflect.DeepEqual(leg, want) {
		t.Errorf("expected: %v, got: %v", want, leg)
	}
}

func TestReadHaplotypes(t *testing.T) {
	path := writeFile(t, "test.hap", "0 1 0 1\n1 0 0 0\n")
	hap, n, err := ReadHaplotypes(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || len(hap) != 2 {
		t.Fatalf("got %d haplotypes, %d rows", n, len(hap))
	}
	if !hap[0].Equal(row(4, 1, 3)) || !hap[1].Equal(row(4, 0)) {
		t.Errorf("rows parsed wrong: %v %v", hap[0], hap[1])
	}

	bad := writeFile(t, "bad.hap", "0 1\n1 0 1\n")
	if _, _, err := ReadHaplotypes(bad); err == nil {
		t.Error("expected an error for ragged haplotype rows")
	}
}

func TestReadObservations(t *testing.T) {
	path := writeFile(t, "test.obs", "pos read_id base\n100\tread1\tG\n200\tread2\tT\n")
	obs, err := ReadObservations(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Observation{
		{100, "read1", "G"},
		{200, "read2", "T"},
	}
	if !reflect.DeepEqual(obs, want) {
		t.Errorf("expected: %v, got: %v", want, obs)
	}
}
