package catalog

// Product is a catalog entry. The catalog is static data; the cart and
// order layers take prices from here rather than trusting the client.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int    `json:"priceCents"`
	Image       string `json:"image"`
	IsPopular   bool   `json:"isPopular"`
}

var products = []Product{
	{ID: "1", Name: "Chocolate Cake", Description: "Rich chocolate layers with creamy frosting", Category: "cakes", PriceCents: 25000, Image: "/assets/product-cake.jpg", IsPopular: true},
	{ID: "2", Name: "Assorted Cupcakes", Description: "6 piece variety pack with different flavors", Category: "cupcakes", PriceCents: 12000, Image: "/assets/product-cupcakes.jpg", IsPopular: true},
	{ID: "3", Name: "French Pastries", Description: "Buttery, flaky pastries fresh from the oven", Category: "pastries", PriceCents: 4500, Image: "/assets/product-pastries.jpg"},
	{ID: "4", Name: "Artisan Bread", Description: "Freshly baked sourdough with crispy crust", Category: "bread", PriceCents: 3500, Image: "/assets/product-bread.jpg"},
	{ID: "5", Name: "Vanilla Cake", Description: "Classic vanilla sponge with buttercream", Category: "cakes", PriceCents: 22000, Image: "/assets/product-cake.jpg"},
	{ID: "6", Name: "Blueberry Muffins", Description: "Moist muffins packed with fresh blueberries", Category: "muffins", PriceCents: 6000, Image: "/assets/product-cupcakes.jpg", IsPopular: true},
	{ID: "7", Name: "Croissants", Description: "Light and buttery French croissants", Category: "pastries", PriceCents: 2500, Image: "/assets/product-pastries.jpg"},
	{ID: "8", Name: "Whole Wheat Bread", Description: "Healthy whole wheat loaf", Category: "bread", PriceCents: 3000, Image: "/assets/product-bread.jpg"},
}

// All returns every product.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByCategory filters the catalog; "all" or "" returns everything.
func ByCategory(category string) []Product {
	if category == "" || category == "all" {
		return All()
	}
	var out []Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists the distinct categories in catalog order.
func Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Get returns the product with the given id, or nil.
func Get(id string) *Product {
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p
		}
	}
	return nil
}
