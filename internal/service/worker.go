package service

import (
	"context"
	"errors"
	"sync"

	"github.com/campusnav/wayfinder/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// PlaceWriter persists map nodes and edges.
type PlaceWriter interface {
	UpsertNode(ctx context.Context, n domain.Node) error
	UpsertEdge(ctx context.Context, e domain.Edge) error
}

// BulkIngestor writes a dataset into a PlaceWriter using a worker pool.
type BulkIngestor struct {
	store   PlaceWriter
	workers int
}

// NewBulkIngestor creates a new BulkIngestor with the provided concurrency.
func NewBulkIngestor(store PlaceWriter, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		store:   store,
		workers: workers,
	}
}

// IngestDataset normalizes ds and writes every node, then every edge. Edges
// are only started once all nodes are stored.
func (bi *BulkIngestor) IngestDataset(ctx context.Context, ds domain.Dataset) error {
	ds = NormalizeDataset(ds)
	var taskErr TaskError
	if err := bi.IngestNodes(ctx, ds.Nodes); err != nil {
		if isContextErr(err) {
			return err
		}
		taskErr.append(err)
	}
	if err := bi.IngestEdges(ctx, ds.Edges); err != nil {
		if isContextErr(err) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

// IngestNodes upserts nodes concurrently.
func (bi *BulkIngestor) IngestNodes(ctx context.Context, nodes []domain.Node) error {
	return bi.run(ctx, len(nodes), func(idx int) error {
		return bi.store.UpsertNode(ctx, nodes[idx])
	})
}

// IngestEdges upserts edges concurrently.
func (bi *BulkIngestor) IngestEdges(ctx context.Context, edges []domain.Edge) error {
	return bi.run(ctx, len(edges), func(idx int) error {
		return bi.store.UpsertEdge(ctx, edges[idx])
	})
}

func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				if err := workerFn(idx); err != nil {
					errCh <- err
				}
			}
		}()
	}

	cancelled := false
	for i := 0; i < total && !cancelled; i++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case indexCh <- i:
		case <-ctx.Done():
			cancelled = true
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if cancelled {
		return ctx.Err()
	}
	var taskErr TaskError
	for err := range errCh {
		if isContextErr(err) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
