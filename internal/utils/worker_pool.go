// Package utils holds small collaborator infrastructure shared across
// the server boundary: currently just the worker pool that turns
// accepted connections into a bounded set of read-handler goroutines.
package utils

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction handles one task. Any error it returns is treated as
// fatal for that worker goroutine.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool runs a fixed number of goroutines pulling tasks off a
// shared channel. Connections re-enqueue themselves via AddTask after
// each read, so a single connection is only ever in the hands of one
// worker at a time.
type WorkerPool struct {
	n     int
	tasks chan any
}

// NewWorkerPool constructs a pool with size worker goroutines.
func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		n:     size,
		tasks: make(chan any, taskChanSize),
	}
}

// AddTask enqueues a task for the next free worker to pick up.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup starts and maintains the pool's worker goroutines until t dies.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("workers", pool.n).Msg("starting worker pool")
	for i := 0; i < pool.n; i++ {
		t.Go(func() error {
			return pool.worker(t, work)
		})
	}
}

// worker repeatedly pulls a task and runs work on it until the tomb
// dies or work returns an error.
func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-pool.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("worker exiting")
				return err
			}
		}
	}
}
