package texture

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
)

// newWorkerPool builds the pool LoadFiles decodes on.
var newWorkerPool = worker.NewDynamicWorkerPool

// LoadFiles reads and decodes image files concurrently on a bounded worker pool. Only CPU work
// happens here; the results are uploaded later on the context thread with NewTexture.
//
// Parameters:
//   - paths: the image files to decode
//   - workers: the maximum number of concurrent decodes; values <= 0 use runtime.NumCPU
//
// Returns:
//   - []common.TextureStagingData: decoded pixels in the same order as paths; failed entries are zero
//   - error: every decode failure joined, or nil
func LoadFiles(paths []string, workers int) ([]common.TextureStagingData, error) {
	results := make([]common.TextureStagingData, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(paths))

	pool := newWorkerPool(workers, len(paths), 1*time.Second)
	defer pool.Stop()

	// The pool's own Wait blocks until workers idle out, so a WaitGroup marks completion.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs = make([]error, len(paths))
	)
	for i, path := range paths {
		wg.Add(1)
		id, p := i, path
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				staging, err := DecodeFile(p)
				mu.Lock()
				results[id], errs[id] = staging, err
				mu.Unlock()
				return nil, err
			},
		})
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
