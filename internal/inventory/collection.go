// Package inventory manages one entity type at a time: an authoritative
// in-memory set loaded from a backing store, plus staged inserts, updates and
// deletes that are flushed back with the Export methods.
//
// A Collection is not safe for concurrent use.
package inventory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/metrics"
)

// Store is the backing store of one entity type. Insert, Update and Delete
// either apply every item or report an error.
type Store[T domain.Entity] interface {
	Find(ctx context.Context, conditions string) ([]T, error)
	Insert(ctx context.Context, items []T) error
	Update(ctx context.Context, items []T) error
	Delete(ctx context.Context, items []T) error
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) { o.metrics = r }
}

type Collection[T domain.Entity] struct {
	kind    string
	store   Store[T]
	current map[int64]T
	staged  [3]staging[T]
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New returns an empty collection of the given kind ("lenses", "stock", ...)
// backed by store.
func New[T domain.Entity](kind string, store Store[T], opts ...Option) *Collection[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		kind:    kind,
		store:   store,
		current: make(map[int64]T),
		logger:  o.logger,
		metrics: o.metrics,
	}
}

func (c *Collection[T]) Kind() string {
	return c.kind
}

// Import replaces the authoritative set with the store records matching
// conditions. On error the set is left as it was.
func (c *Collection[T]) Import(ctx context.Context, conditions string) error {
	items, err := c.store.Find(ctx, conditions)
	if err != nil {
		c.metrics.Failed(c.kind, "import")
		c.logger.Error("import failed", "kind", c.kind, "conditions", conditions, "error", err)
		return fmt.Errorf("failed to import %s: %w", c.kind, err)
	}

	current := make(map[int64]T, len(items))
	for _, it := range items {
		current[it.Key()] = it
	}
	c.current = current
	c.metrics.SetSize(c.kind, len(current))
	c.logger.Debug("import complete", "kind", c.kind, "conditions", conditions, "count", len(current))
	return nil
}

// List returns the authoritative set ordered by key.
func (c *Collection[T]) List() []T {
	out := make([]T, 0, len(c.current))
	for _, it := range c.current {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.Key(), b.Key()) })
	return out
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	it, ok := c.current[id]
	return it, ok
}

func (c *Collection[T]) Len() int {
	return len(c.current)
}

// Insert stages e for creation.
func (c *Collection[T]) Insert(e T) { c.stage(OpInsert, e) }

// Update stages e for modification.
func (c *Collection[T]) Update(e T) { c.stage(OpUpdate, e) }

// Delete stages e for removal.
func (c *Collection[T]) Delete(e T) { c.stage(OpDelete, e) }

// stage puts e in the staging set for op. The staging sets stay disjoint
// and operations on one key fold together:
//   - update of a pending insert replaces the insert's payload
//   - delete of a pending insert cancels the insert
//   - insert of a pending delete of a stored record becomes an update
//
// Any other sequence keeps the latest operation.
func (c *Collection[T]) stage(op Op, e T) {
	id := e.Key()
	switch {
	case op == OpUpdate && c.staged[OpInsert].has(id):
		op = OpInsert
	case op == OpDelete && c.staged[OpInsert].has(id):
		c.staged[OpInsert].remove(id)
		c.logger.Debug("cancelled pending insert", "kind", c.kind, "id", id)
		return
	case op == OpInsert && c.staged[OpDelete].has(id):
		if _, stored := c.current[id]; stored {
			op = OpUpdate
		}
	}

	for other := range c.staged {
		if Op(other) != op && c.staged[other].remove(id) {
			c.logger.Debug("restaged entity", "kind", c.kind, "id", id, "from", Op(other).String(), "to", op.String())
		}
	}
	c.staged[op].put(e)
	c.metrics.Staged(c.kind, op.String())
}

// Pending returns a copy of the staging set for op.
func (c *Collection[T]) Pending(op Op) []T {
	if op < OpInsert || op > OpDelete {
		return nil
	}
	return c.staged[op].snapshot()
}

func (c *Collection[T]) ExportInserts(ctx context.Context) error {
	return c.flush(ctx, OpInsert, c.store.Insert)
}

func (c *Collection[T]) ExportUpdates(ctx context.Context) error {
	return c.flush(ctx, OpUpdate, c.store.Update)
}

func (c *Collection[T]) ExportDeletes(ctx context.Context) error {
	return c.flush(ctx, OpDelete, c.store.Delete)
}

// flush pushes the staging set for op to the store. Only on success is the
// staging set cleared and the authoritative set updated.
func (c *Collection[T]) flush(ctx context.Context, op Op, push func(context.Context, []T) error) error {
	s := &c.staged[op]
	if s.len() == 0 {
		return nil
	}

	items := s.snapshot()
	if err := push(ctx, items); err != nil {
		c.metrics.Failed(c.kind, op.String())
		c.logger.Error("export failed", "kind", c.kind, "op", op.String(), "count", len(items), "error", err)
		return &StepError{Kind: c.kind, Op: op, Err: err}
	}

	for _, it := range items {
		if op == OpDelete {
			delete(c.current, it.Key())
		} else {
			c.current[it.Key()] = it
		}
	}
	s.clear()

	c.metrics.Exported(c.kind, op.String(), len(items))
	c.metrics.SetSize(c.kind, len(c.current))
	c.logger.Info("export complete", "kind", c.kind, "op", op.String(), "count", len(items))
	return nil
}

// Report counts the records flushed by Export, per step.
type Report struct {
	Inserted int
	Updated  int
	Deleted  int
}

// Export flushes inserts, then updates, then deletes. Every step runs even if
// an earlier one failed; the returned error joins one *StepError per failed
// step and the Report counts only the steps that succeeded.
func (c *Collection[T]) Export(ctx context.Context) (Report, error) {
	var report Report
	steps := []struct {
		op    Op
		count *int
		run   func(context.Context) error
	}{
		{OpInsert, &report.Inserted, c.ExportInserts},
		{OpUpdate, &report.Updated, c.ExportUpdates},
		{OpDelete, &report.Deleted, c.ExportDeletes},
	}

	var errs []error
	for _, step := range steps {
		n := c.staged[step.op].len()
		if err := step.run(ctx); err != nil {
			errs = append(errs, err)
			continue
		}
		*step.count = n
	}
	return report, errors.Join(errs...)
}
