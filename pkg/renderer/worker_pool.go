package renderer

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-scanline-raytracer/pkg/core"
)

// LineFunc renders viewport scanline row using the given sampler
type LineFunc func(row int, sampler core.Sampler) []RGB

// LineTask represents a scanline rendering task for the worker pool
type LineTask struct {
	Row  int   // Viewport scanline (0 = bottom)
	Seed int64 // Seed for the worker's random stream while rendering this row
}

// LineResult contains the result from rendering a scanline
type LineResult struct {
	Row    int
	Pixels []RGB
	Error  error
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	ctx         context.Context
	taskQueue   chan LineTask
	resultQueue chan LineResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline tasks. Each worker owns its random
// generator and reseeds it from the task, so no RNG state is shared.
type Worker struct {
	ID          int
	render      LineFunc
	random      *rand.Rand
	sampler     *core.RandomSampler
	ctx         context.Context
	taskQueue   chan LineTask
	resultQueue chan LineResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// capacity is the number of tasks that will be submitted; both queues are
// sized for it so neither submitting nor reporting ever blocks.
func NewWorkerPool(ctx context.Context, numWorkers, capacity int, render LineFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		ctx:         ctx,
		taskQueue:   make(chan LineTask, capacity),
		resultQueue: make(chan LineResult, capacity),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		random := rand.New(rand.NewSource(int64(i)))
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			render:      render,
			random:      random,
			sampler:     core.NewRandomSampler(random),
			ctx:         ctx,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task LineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (LineResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := w.ctx.Err(); err != nil {
			w.resultQueue <- LineResult{Row: task.Row, Error: err}
			continue
		}
		w.resultQueue <- w.execute(task)
	}
}

// execute renders one scanline; a panic becomes the line's error so the
// render fails instead of silently losing the row
func (w *Worker) execute(task LineTask) (result LineResult) {
	result.Row = task.Row
	defer func() {
		if r := recover(); r != nil {
			result.Pixels = nil
			result.Error = fmt.Errorf("worker %d: scanline %d panicked: %v", w.ID, task.Row, r)
		}
	}()

	w.random.Seed(task.Seed)
	result.Pixels = w.render(task.Row, w.sampler)
	return result
}
