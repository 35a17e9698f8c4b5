package llr

import (
	"math"
	"testing"
)

func TestLLRSentinels(t *testing.T) {
	if got := LLR(0, 0); got != 0 {
		t.Errorf("LLR(0,0): got %v, want 0", got)
	}
	if got := LLR(1.5, 0); got != SentinelPos {
		t.Errorf("LLR(y>0,0): got %v, want %v", got, SentinelPos)
	}
	if got := LLR(0, 2.5); got != SentinelNeg {
		t.Errorf("LLR(0,x>0): got %v, want %v", got, SentinelNeg)
	}
	if got, want := LLR(6, 2), math.Log(3.0); math.Abs(got-want) > 1e-15 {
		t.Errorf("LLR(6,2): got %v, want %v", got, want)
	}
}

func TestMeanVar(t *testing.T) {
	m, v := MeanVar([]float64{1, 2, 3, 4})
	if m != 2.5 {
		t.Errorf("mean: got %v, want 2.5", m)
	}
	// unbiased sample variance.
	if math.Abs(v-5.0/3.0) > 1e-12 {
		t.Errorf("variance: got %v, want %v", v, 5.0/3.0)
	}
}

func TestPooledMeanStd(t *testing.T) {
	// two windows, three paired replicates: replicate sums are 3, 5, 7, the
	// summed mean is 5, so the stacked variance is 8/2=4 and std 2/2=1.
	matrix := [][]float64{{1, 2, 3}, {2, 3, 4}}
	mean, std, err := PooledMeanStd(matrix)
	if err != nil {
		t.Fatal(err)
	}
	if mean != 2.5 {
		t.Errorf("mean: got %v, want 2.5", mean)
	}
	if math.Abs(std-1) > 1e-12 {
		t.Errorf("std: got %v, want 1", std)
	}

	if _, _, err := PooledMeanStd(nil); err == nil {
		t.Error("expected an error for no windows")
	}
	if _, _, err := PooledMeanStd([][]float64{{1}}); err == nil {
		t.Error("expected an error for a single replicate")
	}
	if _, _, err := PooledMeanStd([][]float64{{1, 2}, {1}}); err == nil {
		t.Error("expected an error for a ragged matrix")
	}
}

func TestRobustMeanStd(t *testing.T) {
	matrix := [][]float64{{1, 1, 1}, {2, 2, 2}, {9, 9, 9}}
	med, std, err := RobustMeanStd(matrix)
	if err != nil {
		t.Fatal(err)
	}
	if med != 2 {
		t.Errorf("median: got %v, want 2", med)
	}
	// deviations are 1, 0, 7 with median 1.
	want := madScale * 1 / math.Sqrt(3)
	if math.Abs(std-want) > 1e-12 {
		t.Errorf("std: got %v, want %v", std, want)
	}
}

func TestChromLength(t *testing.T) {
	l, err := ChromLength("chr21")
	if err != nil || l != 46709983 {
		t.Errorf("chr21: got %d, %v", l, err)
	}
	if _, err := ChromLength("chr23"); err == nil {
		t.Error("expected an error for an unknown chromosome")
	}
}

func window(start, end int, samples ...float64) Window {
	return Window{Start: start, End: end, Samples: samples}
}

func TestBinWindows(t *testing.T) {
	// chromosome of length 100, 4 bins; windows in bins 1 and 3.
	windows := []Window{
		window(26, 34, 1, 2, 3),
		window(36, 44, 2, 3, 4),
		window(80, 90, 5, 5, 5),
	}
	bins, err := BinWindows(windows, 100, 4, MeanOfMeans)
	if err != nil {
		t.Fatal(err)
	}
	if len(bins) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(bins))
	}
	if bins[0].OK || bins[2].OK {
		t.Error("bins 0 and 2 should be empty")
	}
	if !bins[1].OK || bins[1].Mean != 2.5 {
		t.Errorf("bin 1: %+v", bins[1])
	}
	if !bins[3].OK || bins[3].Mean != 5 {
		t.Errorf("bin 3: %+v", bins[3])
	}
	for i, b := range bins {
		if b.Lo != float64(i)/4 || b.Hi != float64(i+1)/4 {
			t.Errorf("bin %d range: [%v,%v)", i, b.Lo, b.Hi)
		}
	}
}

func TestBinWindowsCoverage(t *testing.T) {
	// the bin ranges partition [0,1) regardless of window distribution.
	cases := [][]Window{
		nil,
		{window(0, 10, 1, 2), window(12, 20, 3, 4)},
		{window(990, 1000, 1, 2)},
		{window(5, 15, 1, 2), window(500, 510, 3, 4), window(900, 920, 5, 6)},
	}
	for _, windows := range cases {
		for _, numBins := range []int{1, 3, 7, 10} {
			bins, err := BinWindows(windows, 1000, numBins, MeanOfMeans)
			if err != nil {
				t.Fatal(err)
			}
			if len(bins) != numBins {
				t.Fatalf("expected %d bins, got %d", numBins, len(bins))
			}
			if bins[0].Lo != 0 || bins[numBins-1].Hi != 1 {
				t.Errorf("bins do not span [0,1): %+v", bins)
			}
			for i := 1; i < numBins; i++ {
				if bins[i].Lo != bins[i-1].Hi {
					t.Errorf("gap between bins %d and %d", i-1, i)
				}
			}
		}
	}
}

func TestBinWindowsAllCovered(t *testing.T) {
	// every window lands in the bin holding its midpoint; window 990-1000
	// has midpoint 995 and stays in the last bin.
	windows := []Window{
		window(0, 10, 1, 2),
		window(400, 420, 3, 4),
		window(990, 1000, 5, 6),
	}
	bins, err := BinWindows(windows, 1000, 2, MeanOfMeans)
	if err != nil {
		t.Fatal(err)
	}
	if !bins[0].OK || bins[0].Mean != 2.5 {
		t.Errorf("bin 0: %+v", bins[0])
	}
	if !bins[1].OK || bins[1].Mean != 5.5 {
		t.Errorf("bin 1: %+v", bins[1])
	}
}

func TestBinWindowsErrors(t *testing.T) {
	if _, err := BinWindows(nil, 100, 0, MeanOfMeans); err == nil {
		t.Error("expected an error for zero bins")
	}
	if _, err := BinWindows(nil, 0, 5, MeanOfMeans); err == nil {
		t.Error("expected an error for a zero-length chromosome")
	}
	unsorted := []Window{window(50, 60, 1, 2), window(0, 10, 1, 2)}
	if _, err := BinWindows(unsorted, 100, 2, MeanOfMeans); err == nil {
		t.Error("expected an error for unsorted windows")
	}
}
