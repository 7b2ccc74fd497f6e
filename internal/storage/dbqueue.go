package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrQueueClosed is returned when a job is submitted after Close.
var ErrQueueClosed = errors.New("database queue is closed")

// DBQueue serializes all SQLite access through a single goroutine. Callback
// dispatch and the maintenance sweep share one queue, so a lead is never
// mutated while another operation is reading or writing it.
type DBQueue struct {
	db   *sql.DB
	jobs chan *dbJob
	done chan struct{}
}

type dbJob struct {
	query    func(*sql.DB) error
	response chan error
}

// NewDBQueue creates a queue over db and starts its worker goroutine.
func NewDBQueue(db *sql.DB) *DBQueue {
	q := &DBQueue{
		db:   db,
		jobs: make(chan *dbJob, 100),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *DBQueue) run() {
	for {
		select {
		case job := <-q.jobs:
			job.response <- q.executeWithRetry(job.query)
		case <-q.done:
			return
		}
	}
}

// executeWithRetry retries a job that hits SQLITE_BUSY with linear backoff.
func (q *DBQueue) executeWithRetry(query func(*sql.DB) error) error {
	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		err := query(q.db)
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			time.Sleep(time.Millisecond * time.Duration(100*(i+1)))
			continue
		}
		return err
	}
	return errors.New("max retries exceeded for SQLITE_BUSY")
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}

// Execute runs query on the queue goroutine and waits for its result.
// The caller stops waiting when ctx is cancelled, but a job that already
// reached the worker still runs to completion.
func (q *DBQueue) Execute(ctx context.Context, query func(*sql.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	job := &dbJob{
		query:    query,
		response: make(chan error, 1),
	}

	select {
	case q.jobs <- job:
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-job.response:
		return err
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker goroutine. Pending jobs are dropped.
func (q *DBQueue) Close() {
	close(q.done)
}
