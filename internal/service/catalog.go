package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/inventory"
	"github.com/vbonduro/camstock/internal/metrics"
	"github.com/vbonduro/camstock/internal/seed"
)

const (
	KindCameras = "cameras"
	KindFlashes = "flashes"
	KindLenses  = "lenses"
	KindStock   = "stock"
)

// Kinds lists the catalog kinds in seeding order: products before the stock
// records that point at them.
var Kinds = []string{KindCameras, KindFlashes, KindLenses, KindStock}

var ErrUnknownKind = errors.New("unknown kind")

// Stores are the backing stores of the four entity types.
type Stores struct {
	Cameras inventory.Store[domain.Camera]
	Flashes inventory.Store[domain.Flash]
	Lenses  inventory.Store[domain.Lens]
	Stock   inventory.Store[domain.Stock]
}

// Catalog hands out collections over its stores. Each call returns a fresh,
// empty collection owned by the caller.
type Catalog struct {
	stores  Stores
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func NewCatalog(stores Stores, logger *slog.Logger, rec *metrics.Recorder) *Catalog {
	return &Catalog{stores: stores, logger: logger, metrics: rec}
}

func (c *Catalog) options() []inventory.Option {
	return []inventory.Option{inventory.WithLogger(c.logger), inventory.WithMetrics(c.metrics)}
}

func (c *Catalog) Cameras() *inventory.Collection[domain.Camera] {
	return inventory.New(KindCameras, c.stores.Cameras, c.options()...)
}

func (c *Catalog) Flashes() *inventory.Collection[domain.Flash] {
	return inventory.New(KindFlashes, c.stores.Flashes, c.options()...)
}

func (c *Catalog) Lenses() *inventory.Collection[domain.Lens] {
	return inventory.New(KindLenses, c.stores.Lenses, c.options()...)
}

func (c *Catalog) Stock() *inventory.Collection[domain.Stock] {
	return inventory.New(KindStock, c.stores.Stock, c.options()...)
}

// Render imports the records of kind matching conditions and formats them,
// one record per line when condensed, blank-line separated otherwise.
func (c *Catalog) Render(ctx context.Context, kind, conditions string, condensed bool) (string, error) {
	switch kind {
	case KindCameras:
		return render(ctx, c.Cameras(), conditions, condensed)
	case KindFlashes:
		return render(ctx, c.Flashes(), conditions, condensed)
	case KindLenses:
		return render(ctx, c.Lenses(), conditions, condensed)
	case KindStock:
		return render(ctx, c.Stock(), conditions, condensed)
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
}

func render[T domain.Entity](ctx context.Context, coll *inventory.Collection[T], conditions string, condensed bool) (string, error) {
	if err := coll.Import(ctx, conditions); err != nil {
		return "", err
	}
	return Format(coll.List(), condensed), nil
}

func Format[T domain.Entity](items []T, condensed bool) string {
	sep := "\n\n"
	if condensed {
		sep = "\n"
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.Format(condensed)
	}
	return strings.Join(lines, sep)
}

// SeedReport holds the export report of each seeded kind.
type SeedReport map[string]inventory.Report

// Seed stages every record of f as an insert and exports kind by kind. A
// failing kind does not stop the others.
func (c *Catalog) Seed(ctx context.Context, f *seed.File) (SeedReport, error) {
	c.logger.Info("seeding catalog", "records", f.Len())

	report := SeedReport{}
	errs := []error{
		seedKind(ctx, c.Cameras(), f.Cameras, report),
		seedKind(ctx, c.Flashes(), f.Flashes, report),
		seedKind(ctx, c.Lenses(), f.Lenses, report),
		seedKind(ctx, c.Stock(), f.Stock, report),
	}
	if err := errors.Join(errs...); err != nil {
		return report, err
	}

	c.logger.Info("seeding complete", "records", f.Len())
	return report, nil
}

func seedKind[T domain.Entity](ctx context.Context, coll *inventory.Collection[T], items []T, report SeedReport) error {
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		coll.Insert(it)
	}
	r, err := coll.Export(ctx)
	report[coll.Kind()] = r
	return err
}
