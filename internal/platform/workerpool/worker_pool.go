// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"sync"
	"time"

	"hermesx/internal/platform/errors"
	"hermesx/internal/platform/logx"
)

// Task is one unit of work executed by the pool.
type Task interface {
	// Name identifies the task in logs and results.
	Name() string

	// Execute runs the task. A panic inside Execute is recovered by the
	// pool and surfaced as the task's error; it never takes down a worker
	// or a sibling task.
	Execute(ctx context.Context) error
}

// Result pairs a finished task with its outcome.
type Result struct {
	Task     Task
	Err      error
	Duration time.Duration
}

// Pool runs tasks with bounded concurrency. Completion order is arbitrary.
type Pool struct {
	workers int
	logger  logx.Logger
}

// New creates a pool with the given width. workers <= 0 falls back to 4.
func New(workers int, logger logx.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logx.New()
	}
	return &Pool{
		workers: workers,
		logger:  logger.With("component", "workerpool"),
	}
}

// Workers returns the pool width.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes every task and blocks until all have finished or the context
// is canceled. Results arrive in completion order, not submission order.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task)
	out := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range queue {
				out <- p.execute(ctx, id, task)
			}
		}(i)
	}

	go func() {
		defer close(queue)
		for _, task := range tasks {
			select {
			case queue <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(out)

	results := make([]Result, 0, len(tasks))
	for r := range out {
		results = append(results, r)
	}
	return results
}

// execute runs one task with panic isolation.
func (p *Pool) execute(ctx context.Context, workerID int, task Task) (res Result) {
	start := time.Now()
	res.Task = task

	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Err = errors.Errorf("task panicked: %v", r)
			p.logger.Warn("recovered task panic",
				"worker_id", workerID,
				"task", task.Name(),
				"panic", r,
			)
		}
	}()

	p.logger.Debug("executing task", "worker_id", workerID, "task", task.Name())
	res.Err = task.Execute(ctx)
	return res
}
