package kinds

import (
	"strconv"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

const (
	productIDPrefix    = "prod-"
	productDescMaxSize = 500
	productMinPrice    = 10
	productMaxPrice    = 1000
)

// Product is one catalog entry of an e-commerce store.
type Product struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
}

// ProductFactory returns a factory producing products with IDs prod-<index>.
func ProductFactory(src *Source) dataset.Factory[Product] {
	f := src.Faker
	return func(index int) Product {
		return Product{
			ProductID:   productIDPrefix + strconv.Itoa(index),
			ProductName: f.ProductName(),
			Description: src.text(productDescMaxSize),
			Price:       src.score(productMinPrice, productMaxPrice),
			Category:    f.ProductCategory(),
			Brand:       f.Company(),
			InStock:     f.Bool(),
			CreatedAt:   src.pastTimestamp(),
		}
	}
}
