package domain

// Stock records how many units of a product are held at a location.
// ProductKind names the product table ("camera", "flash", "lens") and
// ProductID the record within it.
type Stock struct {
	ID          int64   `json:"id" yaml:"id" bson:"_id"`
	ProductKind string  `json:"product_kind" yaml:"product_kind" bson:"product_kind"`
	ProductID   int64   `json:"product_id" yaml:"product_id" bson:"product_id"`
	Location    string  `json:"location" yaml:"location" bson:"location"`
	Quantity    int64   `json:"quantity" yaml:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" yaml:"unit_price" bson:"unit_price"`
}

func NewStock(id int64, productKind string, productID int64, location string, quantity int64, unitPrice float64) Stock {
	return Stock{
		ID:          id,
		ProductKind: productKind,
		ProductID:   productID,
		Location:    location,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

func (s Stock) Key() int64 { return s.ID }

func (s Stock) Equal(o Stock) bool { return s.ID == o.ID }

func (s Stock) Format(condensed bool) string {
	return render(condensed, []field{
		{"ID", formatInt(s.ID)},
		{"Product Kind", s.ProductKind},
		{"Product ID", formatInt(s.ProductID)},
		{"Location", s.Location},
		{"Quantity", formatInt(s.Quantity)},
		{"Unit Price", formatFloat(s.UnitPrice)},
	})
}

func (s Stock) String() string { return s.Format(true) }
