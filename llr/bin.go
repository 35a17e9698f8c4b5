package llr

import (
	"fmt"
)

// hg38 chromosome lengths (GRCh38, NCBI).
var chromLengths = map[string]int{
	"chr1": 248956422, "chr2": 242193529, "chr3": 198295559, "chr4": 190214555,
	"chr5": 181538259, "chr6": 170805979, "chr7": 159345973, "chr8": 145138636,
	"chr9": 138394717, "chr10": 133797422, "chr11": 135086622, "chr12": 133275309,
	"chr13": 114364328, "chr14": 107043718, "chr15": 101991189, "chr16": 90338345,
	"chr17": 83257441, "chr18": 80373285, "chr19": 58617616, "chr20": 64444167,
	"chr21": 46709983, "chr22": 50818468, "chrX": 156040895, "chrY": 57227415,
}

// ChromLength returns the hg38 length of the named chromosome.
func ChromLength(chrom string) (int, error) {
	l, ok := chromLengths[chrom]
	if !ok {
		return 0, fmt.Errorf("llr: unknown chromosome %q", chrom)
	}
	return l, nil
}

// Mode selects how the windows of a bin are combined.
type Mode int

const (
	// MeanOfMeans pools window means with the Bienaymé standard error.
	MeanOfMeans Mode = iota
	// MedianOfMedians takes the median of window medians with a MAD scale.
	MedianOfMedians
)

// Bin is one half-open chromosome-fraction range. OK is false when no window
// midpoint fell inside the range, in which case Mean and Std are meaningless.
type Bin struct {
	Lo, Hi float64
	Mean   float64
	Std    float64
	OK     bool
}

// Mid returns the bin midpoint as a chromosome fraction.
func (b Bin) Mid() float64 {
	return (b.Lo + b.Hi) / 2
}

// BinWindows divides the chromosome into numBins equal-length ranges and
// walks the windows once in position order, assigning each run of consecutive
// windows to the bin containing their midpoints. The result always has
// exactly numBins entries covering [0,1) in order, gap-free; uncovered bins
// have OK false. Windows must be sorted by position.
func BinWindows(windows []Window, chrLength, numBins int, mode Mode) ([]Bin, error) {
	if numBins < 1 {
		return nil, fmt.Errorf("llr: numBins must be positive, got %d", numBins)
	}
	if chrLength < 1 {
		return nil, fmt.Errorf("llr: chromosome length must be positive, got %d", chrLength)
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].Mid() < windows[i-1].Mid() {
			return nil, fmt.Errorf("llr: windows out of order at index %d", i)
		}
	}

	type span struct {
		j, k int
		ok   bool
	}
	spans := make([]span, numBins)
	binSize := float64(chrLength) / float64(numBins)

	if len(windows) > 0 {
		i := 0
		// bins before the first window stay empty.
		for ; i < numBins; i++ {
			if windows[0].Mid() < float64(i+1)*binSize {
				break
			}
		}
		j := 0
		for k, w := range windows {
			if i >= numBins {
				break
			}
			mid := w.Mid()
			if mid < float64(i)*binSize || mid >= float64(i+1)*binSize {
				spans[i] = span{j, k, true}
				j = k
				// skip empty bins up to the one containing this midpoint.
				for i++; i < numBins; i++ {
					if mid < float64(i+1)*binSize {
						break
					}
				}
			}
		}
		if i < numBins {
			spans[i] = span{j, len(windows), true}
		}
	}

	bins := make([]Bin, numBins)
	for i := range bins {
		bins[i] = Bin{Lo: float64(i) / float64(numBins), Hi: float64(i+1) / float64(numBins)}
		if !spans[i].ok {
			continue
		}
		matrix := make([][]float64, 0, spans[i].k-spans[i].j)
		for _, w := range windows[spans[i].j:spans[i].k] {
			matrix = append(matrix, w.Samples)
		}
		var mean, std float64
		var err error
		switch mode {
		case MeanOfMeans:
			mean, std, err = PooledMeanStd(matrix)
		case MedianOfMedians:
			mean, std, err = RobustMeanStd(matrix)
		default:
			return nil, fmt.Errorf("llr: unknown mode %d", mode)
		}
		if err != nil {
			return nil, err
		}
		bins[i].Mean, bins[i].Std, bins[i].OK = mean, std, true
	}
	return bins, nil
}
