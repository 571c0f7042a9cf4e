package models

type Product struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name" binding:"required"`
	Description string  `bson:"description" json:"description" binding:"required"`
	Price       float64 `bson:"price" json:"price" binding:"gte=0"`
	Quantity    int     `bson:"quantity" json:"quantity" binding:"gte=0"`
}

// ProductSnapshot is the priced view of a product copied into an order.
// It carries no stock quantity.
type ProductSnapshot struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
