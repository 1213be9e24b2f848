package cpu

import (
	"github.com/born-ml/nash/internal/parallel"
	"github.com/born-ml/nash/internal/tensor"
)

// broadcastBinary fills result with elem(a, b), repeating size-1 dimensions.
// All tensors are contiguous row-major, so a row's stride equals its column count.
func broadcastBinary(result, a, b *tensor.RawTensor, elem func(x, y float64) float64, cfg parallel.Config) {
	rows, cols := result.Shape().Rows(), result.Shape().Cols()
	aRows, aCols := a.Shape().Rows(), a.Shape().Cols()
	bRows, bCols := b.Shape().Rows(), b.Shape().Cols()

	out := result.Data()
	aData := a.Data()
	bData := b.Data()

	parallel.Range(rows, func(start, end int) {
		for i := start; i < end; i++ {
			ai := 0
			if aRows > 1 {
				ai = i * aCols
			}
			bi := 0
			if bRows > 1 {
				bi = i * bCols
			}
			row := out[i*cols : (i+1)*cols]
			for j := range row {
				aj, bj := 0, 0
				if aCols > 1 {
					aj = j
				}
				if bCols > 1 {
					bj = j
				}
				row[j] = elem(aData[ai+aj], bData[bi+bj])
			}
		}
	}, cfg)
}
