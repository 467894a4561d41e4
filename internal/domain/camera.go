package domain

// Camera is a camera body.
type Camera struct {
	ID         int64   `json:"id" yaml:"id" bson:"_id"`
	Brand      string  `json:"brand" yaml:"brand" bson:"brand"`
	Model      string  `json:"model" yaml:"model" bson:"model"`
	Category   string  `json:"category" yaml:"category" bson:"category"`
	Megapixels float64 `json:"megapixels" yaml:"megapixels" bson:"megapixels"`
	CropFactor float64 `json:"crop_factor" yaml:"crop_factor" bson:"crop_factor"`
	Weight     float64 `json:"weight" yaml:"weight" bson:"weight"`
}

func NewCamera(id int64, brand, model, category string, megapixels, cropFactor, weight float64) Camera {
	return Camera{
		ID:         id,
		Brand:      brand,
		Model:      model,
		Category:   category,
		Megapixels: megapixels,
		CropFactor: cropFactor,
		Weight:     weight,
	}
}

func (c Camera) Key() int64 { return c.ID }

func (c Camera) Equal(o Camera) bool { return c.ID == o.ID }

func (c Camera) Format(condensed bool) string {
	return render(condensed, []field{
		{"ID", formatInt(c.ID)},
		{"Brand", c.Brand},
		{"Model", c.Model},
		{"Category", c.Category},
		{"Megapixels", formatFloat(c.Megapixels)},
		{"Crop Factor", formatFloat(c.CropFactor)},
		{"Weight", formatGrams(c.Weight)},
	})
}

func (c Camera) String() string { return c.Format(true) }
