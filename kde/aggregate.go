package kde

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/circkde/vonmises"
)

// blockRows is the number of samples whose kernels are materialised together
// as one matrix. Bounds memory at blockRows × grid size per worker.
const blockRows = 256

// DefaultParallelThreshold is the minimum sample count for parallel kernel
// evaluation. Below this, single-threaded is faster due to goroutine overhead.
const DefaultParallelThreshold = 64

// aggregator sums weighted kernels over a fixed grid.
type aggregator struct {
	kernel  vonmises.Kernel
	grid    []float64
	samples []float64
	weights []float64 // nil for uniform
	ones    []float64 // unit weights for uniform blocks
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	kernels []float64 // blockRows × len(grid), row-major
}

func newAggregator(kernel vonmises.Kernel, grid, samples, weights []float64) *aggregator {
	a := &aggregator{
		kernel:  kernel,
		grid:    grid,
		samples: samples,
		weights: weights,
	}
	if weights == nil {
		a.ones = make([]float64, blockRows)
		for i := range a.ones {
			a.ones[i] = 1
		}
	}
	return a
}

func (a *aggregator) numBlocks() int {
	return (len(a.samples) + blockRows - 1) / blockRows
}

func (a *aggregator) newScratch() *workerScratch {
	return &workerScratch{kernels: make([]float64, blockRows*len(a.grid))}
}

// block evaluates the kernels of samples [b*blockRows, ...) as a rows × M
// matrix K and returns the weighted column sums Kᵀw.
func (a *aggregator) block(b int, scratch *workerScratch) *mat.VecDense {
	start := b * blockRows
	end := min(start+blockRows, len(a.samples))
	rows := end - start
	m := len(a.grid)

	data := scratch.kernels[:rows*m]
	for r := 0; r < rows; r++ {
		a.kernel.Fill(data[r*m:(r+1)*m], a.grid, a.samples[start+r])
	}
	k := mat.NewDense(rows, m, data)

	var w *mat.VecDense
	if a.weights != nil {
		w = mat.NewVecDense(rows, a.weights[start:end])
	} else {
		w = mat.NewVecDense(rows, a.ones[:rows])
	}

	partial := mat.NewVecDense(m, nil)
	partial.MulVec(k.T(), w)
	return partial
}

// sum returns the weighted kernel sum at every grid point. Blocks run on up
// to workers goroutines when there are at least threshold samples. Partial
// sums are reduced in block order, so the result does not depend on the
// worker count.
func (a *aggregator) sum(workers, threshold int) []float64 {
	nBlocks := a.numBlocks()
	partials := make([]*mat.VecDense, nBlocks)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, nBlocks)

	if len(a.samples) < threshold || workers <= 1 {
		scratch := a.newScratch()
		for b := range partials {
			partials[b] = a.block(b, scratch)
		}
	} else {
		a.sumParallel(partials, workers)
	}

	total := mat.NewVecDense(len(a.grid), nil)
	for _, p := range partials {
		total.AddVec(total, p)
	}
	return total.RawVector().Data
}

// sumParallel fills partials using a pool of workers fed block indices.
func (a *aggregator) sumParallel(partials []*mat.VecDense, workers int) {
	work := make(chan int, len(partials))
	for b := range partials {
		work <- b
	}
	close(work)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scratch := a.newScratch()
			for b := range work {
				partials[b] = a.block(b, scratch)
			}
		}()
	}
	wg.Wait()
}
