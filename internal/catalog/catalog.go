package catalog

import "errors"

// ErrUnknownProduct is returned for product ids not present in the catalog.
var ErrUnknownProduct = errors.New("unknown product id")

// Product is a server-trusted catalog entry. Price and currency are never
// accepted from a client request; clients send only the product id.
type Product struct {
	Name     string
	Price    float64
	Currency string
}

var products = map[string]Product{
	"100_WITH_ACCOM": {
		Name:     "100 Hour Yoga TTC with Accommodation",
		Price:    900,
		Currency: "INR",
	},
	"100_WITHOUT_ACCOM": {
		Name:     "100 Hour Yoga TTC without Accommodation",
		Price:    600,
		Currency: "INR",
	},
	"200_WITH_ACCOM": {
		Name:     "200 Hour Yoga TTC with Accommodation",
		Price:    1800,
		Currency: "INR",
	},
	"200_WITHOUT_ACCOM": {
		Name:     "200 Hour Yoga TTC without Accommodation",
		Price:    900,
		Currency: "INR",
	},
}

// Lookup resolves a product id to its catalog entry.
func Lookup(productID string) (Product, error) {
	p, ok := products[productID]
	if !ok {
		return Product{}, ErrUnknownProduct
	}
	return p, nil
}
