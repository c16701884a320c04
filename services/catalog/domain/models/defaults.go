package models

import "github.com/shopspring/decimal"

const placeholderImage = "/placeholder.svg?height=200&width=200"

// DefaultProducts is the catalog installed on a fresh store.
func DefaultProducts() []Product {
	p := func(id int64, name, category, price string, stock int) Product {
		return Product{
			ID:       id,
			Name:     name,
			Category: category,
			Price:    decimal.RequireFromString(price),
			Stock:    stock,
			Image:    placeholderImage,
		}
	}
	return []Product{
		p(1, "Laptop Pro", "Electronics", "1299.99", 15),
		p(2, "Wireless Headphones", "Audio", "149.99", 25),
		p(3, "Smartphone X", "Electronics", "899.99", 10),
		p(4, "Coffee Maker", "Kitchen", "79.99", 8),
		p(5, "Fitness Tracker", "Wearables", "129.99", 20),
		p(6, "Bluetooth Speaker", "Audio", "89.99", 12),
		p(7, "Desk Chair", "Furniture", "199.99", 5),
		p(8, "LED Monitor", "Electronics", "249.99", 7),
		p(9, "Wireless Mouse", "Accessories", "39.99", 30),
		p(10, "External Hard Drive", "Storage", "119.99", 18),
	}
}
