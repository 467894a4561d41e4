package domain

import "github.com/vbonduro/camstock/internal/query"

// Queryable fields per entity type, in rendering order. The first field is
// the key. Names double as SQL column names and document keys.
var (
	CameraFields = query.Fields{
		{Name: "id", Kind: query.Int},
		{Name: "brand", Kind: query.Text},
		{Name: "model", Kind: query.Text},
		{Name: "category", Kind: query.Text},
		{Name: "megapixels", Kind: query.Real},
		{Name: "crop_factor", Kind: query.Real},
		{Name: "weight", Kind: query.Real},
	}

	FlashFields = query.Fields{
		{Name: "id", Kind: query.Int},
		{Name: "brand", Kind: query.Text},
		{Name: "model", Kind: query.Text},
		{Name: "category", Kind: query.Text},
		{Name: "guide_number", Kind: query.Real},
		{Name: "recycle_time", Kind: query.Real},
		{Name: "weight", Kind: query.Real},
	}

	LensFields = query.Fields{
		{Name: "id", Kind: query.Int},
		{Name: "brand", Kind: query.Text},
		{Name: "model", Kind: query.Text},
		{Name: "category", Kind: query.Text},
		{Name: "zoom_max", Kind: query.Real},
		{Name: "zoom_min", Kind: query.Real},
		{Name: "aperture_max", Kind: query.Real},
		{Name: "aperture_min", Kind: query.Real},
		{Name: "weight", Kind: query.Real},
	}

	StockFields = query.Fields{
		{Name: "id", Kind: query.Int},
		{Name: "product_kind", Kind: query.Text},
		{Name: "product_id", Kind: query.Int},
		{Name: "location", Kind: query.Text},
		{Name: "quantity", Kind: query.Int},
		{Name: "unit_price", Kind: query.Real},
	}
)
