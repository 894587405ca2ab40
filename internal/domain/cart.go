package domain

// LineKey identifies a cart line. At most one line exists per key.
type LineKey struct {
	ProductID string
	Color     string
	Size      string
}

// CartLine is the persisted shape of one cart entry. Product is the snapshot
// captured when the item was first added.
type CartLine struct {
	Product  Product `json:"product"`
	Color    string  `json:"color"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Color: l.Color, Size: l.Size}
}
