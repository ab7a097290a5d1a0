package raster

import "math"

// Kernel is a matrix of convolution weights summing to 1
type Kernel struct {
	Rows, Cols int
	weights    []float64
}

func (k *Kernel) At(row, col int) float64 {
	return k.weights[row*k.Cols+col]
}

// GaussianKernel returns a normalised Gaussian kernel whose border cells
// lie spread standard deviations from the center. Larger spreads
// concentrate the weight in the middle.
func GaussianKernel(rows, cols int, spread float64) *Kernel {
	k := &Kernel{Rows: rows, Cols: cols, weights: make([]float64, rows*cols)}
	cr, cc := float64(rows-1)/2, float64(cols-1)/2
	coord := func(i int, center float64) float64 {
		if center == 0 {
			return 0
		}
		return (float64(i) - center) / center * spread
	}
	var total float64
	for r := 0; r < rows; r++ {
		v := coord(r, cr)
		for c := 0; c < cols; c++ {
			u := coord(c, cc)
			w := math.Exp(-(u*u + v*v) / 2)
			k.weights[r*cols+c] = w
			total += w
		}
	}
	for i := range k.weights {
		k.weights[i] /= total
	}
	return k
}
