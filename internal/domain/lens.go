package domain

// Lens is an interchangeable camera lens. Zoom values are focal lengths in mm
// (both zero for a prime), aperture values are f-numbers and weight is grams.
type Lens struct {
	ID          int64   `json:"id" yaml:"id" bson:"_id"`
	Brand       string  `json:"brand" yaml:"brand" bson:"brand"`
	Model       string  `json:"model" yaml:"model" bson:"model"`
	Category    string  `json:"category" yaml:"category" bson:"category"`
	ZoomMax     float64 `json:"zoom_max" yaml:"zoom_max" bson:"zoom_max"`
	ZoomMin     float64 `json:"zoom_min" yaml:"zoom_min" bson:"zoom_min"`
	ApertureMax float64 `json:"aperture_max" yaml:"aperture_max" bson:"aperture_max"`
	ApertureMin float64 `json:"aperture_min" yaml:"aperture_min" bson:"aperture_min"`
	Weight      float64 `json:"weight" yaml:"weight" bson:"weight"`
}

func NewLens(id int64, brand, model, category string, zoomMax, zoomMin, apertureMax, apertureMin, weight float64) Lens {
	return Lens{
		ID:          id,
		Brand:       brand,
		Model:       model,
		Category:    category,
		ZoomMax:     zoomMax,
		ZoomMin:     zoomMin,
		ApertureMax: apertureMax,
		ApertureMin: apertureMin,
		Weight:      weight,
	}
}

func (l Lens) Key() int64 { return l.ID }

// Equal compares identifiers only.
func (l Lens) Equal(o Lens) bool { return l.ID == o.ID }

func (l Lens) Format(condensed bool) string {
	return render(condensed, []field{
		{"ID", formatInt(l.ID)},
		{"Brand", l.Brand},
		{"Model", l.Model},
		{"Category", l.Category},
		{"Zoom Max", formatFloat(l.ZoomMax)},
		{"Zoom Min", formatFloat(l.ZoomMin)},
		{"Aperture Max", formatFloat(l.ApertureMax)},
		{"Aperture Min", formatFloat(l.ApertureMin)},
		{"Weight", formatGrams(l.Weight)},
	})
}

func (l Lens) String() string { return l.Format(true) }
