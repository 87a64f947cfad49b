package models

// Product is a catalog entry. Orders reference products by id and snapshot
// the price at order time; Image holds a storage-relative path.
type Product struct {
	BaseModel
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}
