package grep

import "fmt"

// Partition splits files into exactly workers contiguous chunks whose concatenation,
// in order, is files itself. Chunks are sub-slices of files and must not be appended to.
//
// With N files and W workers, when N >= W the first W-1 chunks hold ⌊N/W⌋ files and the
// last chunk absorbs the remainder. When N < W the first N chunks hold one file each and
// the trailing W-N chunks are empty; their workers still run and report an idle outcome.
func Partition(files []FileRecord, workers int) ([][]FileRecord, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfiguration, workers)
	}

	n := len(files)
	chunks := make([][]FileRecord, workers)
	if n < workers {
		for i := range chunks {
			if i < n {
				chunks[i] = files[i : i+1 : i+1]
			} else {
				chunks[i] = files[n:n:n]
			}
		}
		return chunks, nil
	}

	size := n / workers
	for i := 0; i < workers-1; i++ {
		lo, hi := i*size, (i+1)*size
		chunks[i] = files[lo:hi:hi]
	}
	chunks[workers-1] = files[(workers-1)*size : n : n]
	return chunks, nil
}
