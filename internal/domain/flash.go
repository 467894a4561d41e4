package domain

// Flash is a flash unit. RecycleTime is in seconds at full power.
type Flash struct {
	ID          int64   `json:"id" yaml:"id" bson:"_id"`
	Brand       string  `json:"brand" yaml:"brand" bson:"brand"`
	Model       string  `json:"model" yaml:"model" bson:"model"`
	Category    string  `json:"category" yaml:"category" bson:"category"`
	GuideNumber float64 `json:"guide_number" yaml:"guide_number" bson:"guide_number"`
	RecycleTime float64 `json:"recycle_time" yaml:"recycle_time" bson:"recycle_time"`
	Weight      float64 `json:"weight" yaml:"weight" bson:"weight"`
}

func NewFlash(id int64, brand, model, category string, guideNumber, recycleTime, weight float64) Flash {
	return Flash{
		ID:          id,
		Brand:       brand,
		Model:       model,
		Category:    category,
		GuideNumber: guideNumber,
		RecycleTime: recycleTime,
		Weight:      weight,
	}
}

func (f Flash) Key() int64 { return f.ID }

func (f Flash) Equal(o Flash) bool { return f.ID == o.ID }

func (f Flash) Format(condensed bool) string {
	return render(condensed, []field{
		{"ID", formatInt(f.ID)},
		{"Brand", f.Brand},
		{"Model", f.Model},
		{"Category", f.Category},
		{"Guide Number", formatFloat(f.GuideNumber)},
		{"Recycle Time", formatFloat(f.RecycleTime) + "s"},
		{"Weight", formatGrams(f.Weight)},
	})
}

func (f Flash) String() string { return f.Format(true) }
