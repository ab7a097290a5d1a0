package index

import (
	"fmt"
	"strings"
)

// BinStatistics summarises how objects are spread over the bins of an index
type BinStatistics struct {
	Strategy                 string
	Bins                     int
	EmptyBins                int
	MaxObjectsPerBin         int
	AvgObjectsPerBin         float64
	AvgObjectsPerNonEmptyBin float64
	// AvgObjectsPerUnitSpace weighs each bin by its volume (area for
	// view-plane indices): the expected object count at a random point
	AvgObjectsPerUnitSpace float64

	counts []int
}

func computeStatistics(b binning, extraPerBin int) BinStatistics {
	n := b.numBins()
	stats := BinStatistics{Strategy: b.name(), Bins: n, counts: make([]int, n)}
	if n == 0 {
		return stats
	}
	total := 0
	var weighted, space float64
	for i := 0; i < n; i++ {
		count := len(b.bin(i)) + extraPerBin
		stats.counts[i] = count
		total += count
		stats.MaxObjectsPerBin = max(stats.MaxObjectsPerBin, count)
		if count == 0 {
			stats.EmptyBins++
		}
		m := b.measure(i)
		weighted += float64(count) * m
		space += m
	}
	stats.AvgObjectsPerBin = float64(total) / float64(n)
	if nonEmpty := n - stats.EmptyBins; nonEmpty > 0 {
		stats.AvgObjectsPerNonEmptyBin = float64(total) / float64(nonEmpty)
	}
	if space > 0 {
		stats.AvgObjectsPerUnitSpace = weighted / space
	} else {
		stats.AvgObjectsPerUnitSpace = stats.AvgObjectsPerBin
	}
	return stats
}

// cheaperThan reports whether s is expected to answer queries faster than other
func (s BinStatistics) cheaperThan(other BinStatistics) bool {
	if s.AvgObjectsPerUnitSpace != other.AvgObjectsPerUnitSpace {
		return s.AvgObjectsPerUnitSpace < other.AvgObjectsPerUnitSpace
	}
	if s.MaxObjectsPerBin != other.MaxObjectsPerBin {
		return s.MaxObjectsPerBin < other.MaxObjectsPerBin
	}
	return s.AvgObjectsPerNonEmptyBin < other.AvgObjectsPerNonEmptyBin
}

// Histogram counts bins by object count in classes of equal width up to
// MaxObjectsPerBin. Class i covers counts in [i*w, (i+1)*w).
func (s BinStatistics) Histogram(classes int) []int {
	if classes <= 0 {
		return nil
	}
	hist := make([]int, classes)
	width := float64(s.MaxObjectsPerBin+1) / float64(classes)
	for _, c := range s.counts {
		i := min(classes-1, int(float64(c)/width))
		hist[i]++
	}
	return hist
}

func (s BinStatistics) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d bins (%d empty), max %d objects per bin, ",
		s.Strategy, s.Bins, s.EmptyBins, s.MaxObjectsPerBin)
	fmt.Fprintf(&sb, "avg %.2f per bin, %.2f per non-empty bin, %.2f per unit space",
		s.AvgObjectsPerBin, s.AvgObjectsPerNonEmptyBin, s.AvgObjectsPerUnitSpace)
	return sb.String()
}
