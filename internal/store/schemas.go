package store

import (
	"database/sql"

	"github.com/vbonduro/camstock/internal/domain"
	"github.com/vbonduro/camstock/internal/query"
)

func NewCameraStore(db *sql.DB, dialect query.Dialect) *Table[domain.Camera] {
	return NewTable(db, dialect, Schema[domain.Camera]{
		Table:  "cameras",
		Fields: domain.CameraFields,
		Values: func(c domain.Camera) []any {
			return []any{c.ID, c.Brand, c.Model, c.Category, c.Megapixels, c.CropFactor, c.Weight}
		},
		Scan: func(row Scanner) (domain.Camera, error) {
			var c domain.Camera
			err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Category, &c.Megapixels, &c.CropFactor, &c.Weight)
			return c, err
		},
	})
}

func NewFlashStore(db *sql.DB, dialect query.Dialect) *Table[domain.Flash] {
	return NewTable(db, dialect, Schema[domain.Flash]{
		Table:  "flashes",
		Fields: domain.FlashFields,
		Values: func(f domain.Flash) []any {
			return []any{f.ID, f.Brand, f.Model, f.Category, f.GuideNumber, f.RecycleTime, f.Weight}
		},
		Scan: func(row Scanner) (domain.Flash, error) {
			var f domain.Flash
			err := row.Scan(&f.ID, &f.Brand, &f.Model, &f.Category, &f.GuideNumber, &f.RecycleTime, &f.Weight)
			return f, err
		},
	})
}

func NewLensStore(db *sql.DB, dialect query.Dialect) *Table[domain.Lens] {
	return NewTable(db, dialect, Schema[domain.Lens]{
		Table:  "lenses",
		Fields: domain.LensFields,
		Values: func(l domain.Lens) []any {
			return []any{l.ID, l.Brand, l.Model, l.Category, l.ZoomMax, l.ZoomMin, l.ApertureMax, l.ApertureMin, l.Weight}
		},
		Scan: func(row Scanner) (domain.Lens, error) {
			var l domain.Lens
			err := row.Scan(&l.ID, &l.Brand, &l.Model, &l.Category, &l.ZoomMax, &l.ZoomMin, &l.ApertureMax, &l.ApertureMin, &l.Weight)
			return l, err
		},
	})
}

func NewStockStore(db *sql.DB, dialect query.Dialect) *Table[domain.Stock] {
	return NewTable(db, dialect, Schema[domain.Stock]{
		Table:  "stock",
		Fields: domain.StockFields,
		Values: func(s domain.Stock) []any {
			return []any{s.ID, s.ProductKind, s.ProductID, s.Location, s.Quantity, s.UnitPrice}
		},
		Scan: func(row Scanner) (domain.Stock, error) {
			var s domain.Stock
			err := row.Scan(&s.ID, &s.ProductKind, &s.ProductID, &s.Location, &s.Quantity, &s.UnitPrice)
			return s, err
		},
	})
}
